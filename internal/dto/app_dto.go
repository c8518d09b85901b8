// Package dto Defines data transfer objects (request parameters and response structs)
// Package dto 定义数据传输对象（请求参数和响应结构体）
package dto

// VersionDTO version information for API response
// VersionDTO 版本信息 API 响应对象
type VersionDTO struct {
	Name      string `json:"name"`      // Application name // 应用名称
	Version   string `json:"version"`   // Current version // 当前版本
	GitTag    string `json:"gitTag"`    // Git tag // Git 标签
	BuildTime string `json:"buildTime"` // Build time // 构建时间
}

// HealthDTO health check response
// HealthDTO 健康检查响应
type HealthDTO struct {
	Status     string         `json:"status"`   // ok | degraded | stopping
	Database   string         `json:"database"` // ok | error message
	Uptime     string         `json:"uptime"`
	WriteQueue *WriteQueueDTO `json:"writeQueue,omitempty"`
}

// WriteQueueDTO SQLite 写队列状态
type WriteQueueDTO struct {
	Capacity int   `json:"capacity"`
	Pending  int   `json:"pending"`
	Executed int64 `json:"executed"`
	Failed   int64 `json:"failed"`
	Skipped  int64 `json:"skipped"`
	Closed   bool  `json:"closed"`
}

// SystemDTO host statistics for the private debug endpoint
// SystemDTO 主机状态
type SystemDTO struct {
	Hostname      string  `json:"hostname"`
	OS            string  `json:"os"`
	Platform      string  `json:"platform"`
	KernelVersion string  `json:"kernelVersion"`
	Uptime        uint64  `json:"uptime"`
	CPUCount      int     `json:"cpuCount"`
	CPUPercent    float64 `json:"cpuPercent"`
	Load1         float64 `json:"load1"`
	MemTotal      uint64  `json:"memTotal"`
	MemUsed       uint64  `json:"memUsed"`
	MemPercent    float64 `json:"memPercent"`
	ProcessRSS    uint64  `json:"processRss"`
	Goroutines    int     `json:"goroutines"`
}
