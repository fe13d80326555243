// @title todod API
// @version 1.0
// @description todod 待办守护进程 API 服务
// @host localhost:19970
// @BasePath /api/v1
// @schemes http
package main

import (
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
