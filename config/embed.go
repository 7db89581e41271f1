package config

import _ "embed"

// DefaultConfigYAML 内置默认配置，外部配置文件和环境变量在其基础上覆盖
//
//go:embed config.yaml
var DefaultConfigYAML []byte
