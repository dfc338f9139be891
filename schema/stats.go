package schema

import "fmt"

// SystemStats is the daemon's periodic host-statistics sample.
type SystemStats struct {
	CPUPercent       float32 `json:"cpu_percent"`
	MemoryPercent    float32 `json:"memory_percent"`
	LoadAvg1         float64 `json:"load_avg_1"`
	DiskUsagePercent float32 `json:"disk_usage_percent"`
}

// FormatCPU renders the CPU figure for status bars.
func (s SystemStats) FormatCPU() string {
	return fmt.Sprintf("CPU %d%%", int(s.CPUPercent))
}

// FormatMemory renders the memory figure for status bars.
func (s SystemStats) FormatMemory() string {
	return fmt.Sprintf("MEM %d%%", int(s.MemoryPercent))
}

// FormatLoad renders the one-minute load average for status bars.
func (s SystemStats) FormatLoad() string {
	return fmt.Sprintf("LOAD %.2f", s.LoadAvg1)
}

// FormatDisk renders the disk usage figure for status bars.
func (s SystemStats) FormatDisk() string {
	return fmt.Sprintf("DISK %d%%", int(s.DiskUsagePercent))
}
