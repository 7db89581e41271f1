package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"purchases/config"
	"purchases/database"
	"purchases/service"

	"github.com/joho/godotenv"
	"golang.org/x/term"
	"gorm.io/gorm/logger"
)

func main() {
	_ = godotenv.Load()

	if err := run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			os.Exit(0)
		}
		fmt.Fprintf(os.Stderr, "错误: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("adduser", flag.ContinueOnError)
	fs.SetOutput(stderr)

	username := fs.String("user", "", "用户名")
	passwordFlag := fs.String("password", "", "密码（可选，省略时交互输入）")
	email := fs.String("email", "", "邮箱（可选）")
	configFile := fs.String("config", "", "外部配置文件路径（可选）")
	dbPath := fs.String("db", "", "SQLite 数据库文件路径，指定时覆盖配置")

	if err := fs.Parse(args); err != nil {
		return err
	}

	if strings.TrimSpace(*username) == "" {
		fmt.Fprintln(stdout, "用法: adduser -user <用户名> [-password <密码>] [-email <邮箱>] [-db <数据库文件>]")
		fs.PrintDefaults()
		return fmt.Errorf("缺少必填参数: user")
	}

	password := *passwordFlag
	if password == "" {
		fmt.Fprint(stdout, "密码: ")
		var err error
		password, err = readPassword(stdin)
		if err != nil {
			return fmt.Errorf("读取密码失败: %w", err)
		}
		fmt.Fprintln(stdout)
	}
	if strings.TrimSpace(password) == "" {
		return fmt.Errorf("密码不能为空")
	}

	cfg, err := config.LoadConfig(*configFile)
	if err != nil {
		return fmt.Errorf("加载配置失败: %w", err)
	}
	dbCfg := cfg.Database
	if *dbPath != "" {
		dbCfg.Driver = "sqlite"
		dbCfg.Path = *dbPath
	}

	db, err := database.Open(dbCfg, logger.Silent)
	if err != nil {
		return err
	}
	if sqlDB, err := db.DB(); err == nil {
		defer sqlDB.Close()
	}

	// 命令行创建无需确认密码
	user, err := service.NewAccountService(db).Register(context.Background(), *username, password, password, *email)
	if errors.Is(err, service.ErrUsernameTaken) {
		return fmt.Errorf("用户 %s 已存在", strings.TrimSpace(*username))
	}
	if err != nil {
		return fmt.Errorf("创建用户失败: %w", err)
	}

	fmt.Fprintf(stdout, "用户 %s 创建成功，ID: %d\n", user.Username, user.ID)
	return nil
}

func readPassword(stdin io.Reader) (string, error) {
	if f, ok := stdin.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		bytePassword, err := term.ReadPassword(int(f.Fd()))
		if err != nil {
			return "", err
		}
		return string(bytePassword), nil
	}

	// 非终端（管道、测试）按行读取
	scanner := bufio.NewScanner(stdin)
	if scanner.Scan() {
		return scanner.Text(), nil
	}
	if err := scanner.Err(); err != nil {
		return "", err
	}
	return "", io.EOF
}
