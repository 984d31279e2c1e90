package storage

import (
	"context"
	"fmt"
	"sync"

	"github.com/shashiranjanraj/galeria/config"
	"github.com/shashiranjanraj/galeria/pkg/logger"
)

var (
	managerMu   sync.RWMutex
	disks       = map[string]Disk{}
	defaultDisk = "local"
)

// Connect boots the local disk and, when S3_BUCKET is set, the s3 disk.
// STORAGE_DISK picks the default.
func Connect(ctx context.Context) error {
	managerMu.Lock()
	defer managerMu.Unlock()

	disks["local"] = newLocalDiskFromConfig()
	if config.StorageS3Bucket() != "" {
		d, err := newS3DiskFromConfig(ctx)
		if err != nil {
			logger.Warn("storage: s3 disk disabled", "error", err)
		} else {
			disks["s3"] = d
		}
	}

	name := config.StorageDefault()
	if _, ok := disks[name]; !ok {
		return fmt.Errorf("storage: default disk %q is not configured", name)
	}
	defaultDisk = name
	logger.Info("storage: connected", "default", name)
	return nil
}

// RegisterDisk plugs in a disk, e.g. a temporary LocalDisk in tests.
func RegisterDisk(name string, d Disk) {
	managerMu.Lock()
	defer managerMu.Unlock()
	disks[name] = d
}

// SetDefault selects the disk returned by Default.
func SetDefault(name string) {
	managerMu.Lock()
	defer managerMu.Unlock()
	defaultDisk = name
}

// Use returns the named disk.
func Use(name string) (Disk, error) {
	managerMu.RLock()
	defer managerMu.RUnlock()
	d, ok := disks[name]
	if !ok {
		return nil, fmt.Errorf("storage: disk %q is not configured", name)
	}
	return d, nil
}

// Default returns the default disk, booting a local disk if Connect was
// never called.
func Default() Disk {
	managerMu.RLock()
	d, ok := disks[defaultDisk]
	managerMu.RUnlock()
	if ok {
		return d
	}

	local := newLocalDiskFromConfig()
	RegisterDisk("local", local)
	return local
}
