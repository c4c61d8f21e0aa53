package rknn

import (
	"fmt"
	"strings"
	"syscall"
	"unsafe"
)

// CoreType selects the class of CPU cores to pin the program to
type CoreType int

const (
	FastCores CoreType = 0
	SlowCores CoreType = 1
	AllCores  CoreType = 2
)

// coreMasks are the CPU affinity masks of each supported platform.  The
// fast cores on the big.LITTLE parts are the high numbered ones.
var coreMasks = map[string]map[CoreType]uintptr{
	"rk3562": {FastCores: 0b00001111, SlowCores: 0b00001111, AllCores: 0b00001111},
	"rk3566": {FastCores: 0b00001111, SlowCores: 0b00001111, AllCores: 0b00001111},
	"rk3568": {FastCores: 0b00001111, SlowCores: 0b00001111, AllCores: 0b00001111},
	"rk3576": {FastCores: 0b11110000, SlowCores: 0b00001111, AllCores: 0b11111111},
	"rk3582": {FastCores: 0b00110000, SlowCores: 0b00001111, AllCores: 0b00111111},
	"rk3588": {FastCores: 0b11110000, SlowCores: 0b00001111, AllCores: 0b11111111},
}

// CoreMaskFor returns the CPU affinity mask for the platform, eg: rk3588
func CoreMaskFor(platform string, ct CoreType) (uintptr, error) {

	platform = strings.ToLower(strings.TrimSpace(platform))

	masks, ok := coreMasks[platform]

	if !ok {
		return 0, fmt.Errorf("unknown platform: %s", platform)
	}

	mask, ok := masks[ct]

	if !ok {
		return 0, fmt.Errorf("unknown core type %d for platform %s", ct, platform)
	}

	return mask, nil
}

// SetCPUAffinity pins the program to the CPU cores in mask
func SetCPUAffinity(mask uintptr) error {

	_, _, errno := syscall.RawSyscall(syscall.SYS_SCHED_SETAFFINITY, 0,
		unsafe.Sizeof(mask), uintptr(unsafe.Pointer(&mask)))

	if errno != 0 {
		return fmt.Errorf("failed to set CPU affinity: %w", errno)
	}

	return nil
}

// SetCPUAffinityByPlatform pins the program to the given core type of the
// platform rk3562|rk3566|rk3568|rk3576|rk3582|rk3588
func SetCPUAffinityByPlatform(platform string, ct CoreType) error {

	mask, err := CoreMaskFor(platform, ct)

	if err != nil {
		return err
	}

	return SetCPUAffinity(mask)
}
