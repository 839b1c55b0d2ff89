package app

import (
	"fmt"
	"os"

	"github.com/google/uuid"
)

// GenerateServerID 生成服务实例ID，写入日志便于区分共享序列号的多个实例
// 优先使用环境变量SERVER_ID，否则生成UUID
func GenerateServerID() string {
	if serverID := os.Getenv("SERVER_ID"); serverID != "" {
		return serverID
	}

	// 生成格式：sphero-wire-{hostname}-{uuid}
	hostname, err := os.Hostname()
	if err != nil {
		hostname = "unknown"
	}

	return fmt.Sprintf("sphero-wire-%s-%s", hostname, uuid.New().String()[:8])
}
