package main

import (
	"flag"
	"log"
	"strings"

	"purchases/config"
	"purchases/database"
	"purchases/middleware"
	"purchases/router"

	"github.com/joho/godotenv"
)

// @title 购物记录 API
// @version 1.0
// @description 个人购物记录：按类别/商品记录每次购买，统计商品的平均购买间隔，支持导出
// @host localhost:8080
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

const version = "1.0.0"

var (
	configFile  string
	port        string
	showVersion bool
)

func init() {
	flag.StringVar(&configFile, "config", "", "配置文件路径，覆盖内置配置")
	flag.StringVar(&configFile, "c", "", "同 -config")
	flag.StringVar(&port, "port", "", "监听端口，8080 或 :8080")
	flag.StringVar(&port, "p", "", "同 -port")
	flag.BoolVar(&showVersion, "version", false, "输出版本号后退出")
	flag.BoolVar(&showVersion, "v", false, "同 -version")
}

func main() {
	flag.Parse()

	if showVersion {
		log.Printf("purchases %s", version)
		return
	}

	// .env 不存在时忽略
	if err := godotenv.Load(); err == nil {
		log.Println("已读取 .env")
	}

	cfg, err := config.LoadConfig(configFile)
	if err != nil {
		log.Fatalf("配置错误: %v", err)
	}
	if port != "" {
		if !strings.HasPrefix(port, ":") {
			port = ":" + port
		}
		cfg.Server.Port = port
	}
	config.PrintConfig()

	if err := database.Init(cfg); err != nil {
		log.Fatalf("打开数据库失败: %v", err)
	}
	middleware.InitJWT(cfg)

	r := router.SetupRouter(cfg)

	log.Printf("purchases %s 监听 %s", version, cfg.Server.Port)
	log.Printf("接口文档 http://localhost%s/swagger/index.html", cfg.Server.Port)
	if err := r.Run(cfg.Server.Port); err != nil {
		log.Fatalf("服务退出: %v", err)
	}
}
