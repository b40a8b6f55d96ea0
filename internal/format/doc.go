// Package format holds pure string formatting helpers shared by the CLI
// and calibration output: durations, grouped digits, truncation, byte sizes.
package format
