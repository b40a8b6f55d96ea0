// Package sysmon reports host resources: utilization through gopsutil and
// CPU features through x/sys/cpu.
package sysmon

import (
	"github.com/shirou/gopsutil/v4/cpu"
	"github.com/shirou/gopsutil/v4/mem"
)

// Stats is one snapshot of host-wide resource usage. Fields that could not
// be read are zero.
type Stats struct {
	CPUPercent   float64 // 0.0 .. 100.0, since the previous Sample
	LogicalCPUs  int
	MemPercent   float64 // 0.0 .. 100.0
	MemTotal     uint64
	MemAvailable uint64
}

// Sample reads host CPU and memory usage. CPU usage is measured with a zero
// interval, i.e. relative to the previous call.
func Sample() Stats {
	var s Stats
	if pcts, err := cpu.Percent(0, false); err == nil && len(pcts) > 0 {
		s.CPUPercent = pcts[0]
	}
	if n, err := cpu.Counts(true); err == nil {
		s.LogicalCPUs = n
	}
	if vm, err := mem.VirtualMemory(); err == nil && vm != nil {
		s.MemPercent = vm.UsedPercent
		s.MemTotal = vm.Total
		s.MemAvailable = vm.Available
	}
	return s
}
