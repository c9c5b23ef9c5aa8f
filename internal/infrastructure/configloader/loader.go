package configloader

import (
	"errors"
	"flag"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"regexp"

	"github.com/go-kratos/kratos/v2/config"
	"github.com/go-kratos/kratos/v2/config/file"
	"github.com/joho/godotenv"
)

const (
	envConfPath        = "CONF_PATH"
	envServiceName     = "SERVICE_NAME"
	envServiceVersion  = "SERVICE_VERSION"
	envAppEnv          = "APP_ENV"
	envDatabaseURL     = "DATABASE_URL"
	envPort            = "PORT"
	envPubSubProjectID = "PUBSUB_PROJECT_ID"
	envPubSubTopicID   = "PUBSUB_TOPIC_ID"
	envPubSubEmulator  = "PUBSUB_EMULATOR_HOST"
)

var (
	envFileNames = []string{".env.local", ".env"}
	schemaIdent  = regexp.MustCompile(`^[a-z_][a-z0-9_]*$`)
)

// Params 包含加载配置所需的运行时输入参数。
type Params struct {
	ConfPath string // 配置文件路径（可为空，使用默认值）
	// Name/Version 为编译期注入的服务标识，环境变量优先。
	Name    string
	Version string
}

// BuildError 捕获配置构建过程中的上下文错误信息。
type BuildError struct {
	Stage string
	Path  string
	Err   error
}

// Error 实现 error 接口，提供包含上下文的错误信息。
func (e BuildError) Error() string {
	if e.Stage == "" {
		return e.Err.Error()
	}
	if e.Path != "" {
		return fmt.Sprintf("config %s at %q: %v", e.Stage, e.Path, e.Err)
	}
	return fmt.Sprintf("config %s: %v", e.Stage, e.Err)
}

// Unwrap 暴露底层错误，支持 errors.Is/As 链式查询。
func (e BuildError) Unwrap() error {
	return e.Err
}

// ParseConfPath 解析命令行中的 -conf 参数。
func ParseConfPath(fs *flag.FlagSet, args []string) (string, error) {
	var confPath string
	fs.StringVar(&confPath, "conf", "", "config path, eg: -conf configs/config.yaml")
	if err := fs.Parse(args); err != nil {
		return "", err
	}
	return confPath, nil
}

// Load 从配置文件构建 RuntimeConfig。
//
// 流程：
// 1. 解析配置路径（显式参数 > CONF_PATH > configs）
// 2. best-effort 加载 .env.local / .env
// 3. Kratos config 读取 YAML 并扫描为结构体
// 4. 应用环境变量覆盖、填充默认值并校验
func Load(params Params) (RuntimeConfig, error) {
	confPath := ResolveConfPath(params.ConfPath)
	loadEnvFiles(confPath)

	raw, err := loadBootstrap(confPath)
	if err != nil {
		return RuntimeConfig{}, err
	}

	cfg := fromFile(raw)
	applyEnvOverrides(&cfg)
	fillDefaults(&cfg)
	cfg.Service = buildServiceMetadata(params.Name, params.Version)

	if err := validate(cfg); err != nil {
		return RuntimeConfig{}, BuildError{Stage: "validate", Path: confPath, Err: err}
	}
	return cfg, nil
}

// ResolveConfPath 应用回退规则确定要加载的配置目录/文件路径。
// 优先级：显式传入路径 > CONF_PATH 环境变量 > 默认路径。
func ResolveConfPath(explicit string) string {
	if explicit != "" {
		return explicit
	}
	if env := os.Getenv(envConfPath); env != "" {
		return env
	}
	return defaultConfPath
}

func loadBootstrap(confPath string) (*bootstrapFile, error) {
	c := config.New(config.WithSource(file.NewSource(confPath)))
	if err := c.Load(); err != nil {
		return nil, BuildError{Stage: "load", Path: confPath, Err: err}
	}
	defer c.Close()

	var bc bootstrapFile
	if err := c.Scan(&bc); err != nil {
		return nil, BuildError{Stage: "scan", Path: confPath, Err: err}
	}
	return &bc, nil
}

// applyEnvOverrides 应用环境变量覆盖配置文件中的特定字段。
//
//   - DATABASE_URL: 覆盖 data.postgres.dsn
//   - PORT: 覆盖 server.http.addr 的端口部分（保留 host），适配 Cloud Run
//   - PUBSUB_PROJECT_ID / PUBSUB_TOPIC_ID: 覆盖发布目标
//   - PUBSUB_EMULATOR_HOST: 指向本地模拟器
//
// 环境变量为空时不覆盖，保留配置文件原值。
func applyEnvOverrides(cfg *RuntimeConfig) {
	if cfg == nil {
		return
	}
	if dsn := os.Getenv(envDatabaseURL); dsn != "" {
		cfg.Database.DSN = dsn
	}
	if port := os.Getenv(envPort); port != "" {
		cfg.Server.Address = replacePort(cfg.Server.Address, port)
	}
	if project := os.Getenv(envPubSubProjectID); project != "" {
		cfg.Messaging.PubSub.ProjectID = project
	}
	if topic := os.Getenv(envPubSubTopicID); topic != "" {
		cfg.Messaging.PubSub.TopicID = topic
	}
	if emulator := os.Getenv(envPubSubEmulator); emulator != "" {
		cfg.Messaging.PubSub.EmulatorEndpoint = emulator
	}
}

func validate(cfg RuntimeConfig) error {
	var errs []error
	if cfg.Database.DSN == "" {
		errs = append(errs, errors.New("data.postgres.dsn is required (set DATABASE_URL)"))
	}
	if cfg.Database.MaxOpenConns < 0 || cfg.Database.MinOpenConns < 0 {
		errs = append(errs, errors.New("data.postgres connection counts must be non-negative"))
	}
	if cfg.Database.MaxOpenConns > 0 && cfg.Database.MinOpenConns > cfg.Database.MaxOpenConns {
		errs = append(errs, errors.New("data.postgres.min_open_conns must not exceed max_open_conns"))
	}
	if !schemaIdent.MatchString(cfg.Database.Schema) {
		errs = append(errs, fmt.Errorf("data.postgres.schema %q is not a valid identifier", cfg.Database.Schema))
	}
	if cfg.Messaging.PubSub.TopicID != "" && cfg.Messaging.PubSub.ProjectID == "" {
		errs = append(errs, errors.New("messaging.pubsub.project_id is required when topic_id is set"))
	}
	return errors.Join(errs...)
}

func buildServiceMetadata(name, version string) ServiceMetadata {
	host, _ := os.Hostname()
	return ServiceMetadata{
		Name:        firstNonEmpty(os.Getenv(envServiceName), name, defaultServiceName),
		Version:     firstNonEmpty(os.Getenv(envServiceVersion), version, defaultServiceVersion),
		Environment: firstNonEmpty(os.Getenv(envAppEnv), defaultEnvironment),
		InstanceID:  firstNonEmpty(host, "unknown"),
	}
}

// loadEnvFiles best-effort 加载配置相关的 .env 文件，失败时忽略以保持幂等。
func loadEnvFiles(confPath string) {
	files := envFileCandidates(confPath)
	if len(files) == 0 {
		return
	}
	_ = godotenv.Load(files...)
}

// envFileCandidates 依次在 confPath 所在目录与当前工作目录查找 .env.local、.env。
// godotenv 不会覆盖已设置的变量，因此靠前的文件优先。
func envFileCandidates(confPath string) []string {
	seen := make(map[string]struct{})
	var files []string
	for _, dir := range orderedDirs(confPath) {
		for _, name := range envFileNames {
			candidate := filepath.Join(dir, name)
			if _, err := os.Stat(candidate); err != nil {
				continue
			}
			if _, ok := seen[candidate]; ok {
				continue
			}
			files = append(files, candidate)
			seen[candidate] = struct{}{}
		}
	}
	return files
}

func orderedDirs(confPath string) []string {
	var dirs []string
	appendUnique := func(path string) {
		if path == "" {
			return
		}
		clean := filepath.Clean(path)
		for _, existing := range dirs {
			if existing == clean {
				return
			}
		}
		dirs = append(dirs, clean)
	}

	if confPath != "" {
		if info, err := os.Stat(confPath); err == nil {
			if info.IsDir() {
				appendUnique(confPath)
			} else {
				appendUnique(filepath.Dir(confPath))
			}
		}
	}
	if cwd, err := os.Getwd(); err == nil {
		appendUnique(cwd)
	}
	return dirs
}

// replacePort 替换地址中的端口部分，保留 host。
//   - "0.0.0.0:8000" -> "0.0.0.0:8080"
//   - "[::1]:8000" -> "[::1]:8080"
//   - 无法解析时回退为 "0.0.0.0:<port>"
func replacePort(addr, newPort string) string {
	if addr == "" {
		return "0.0.0.0:" + newPort
	}
	host, _, err := net.SplitHostPort(addr)
	if err != nil {
		return "0.0.0.0:" + newPort
	}
	return net.JoinHostPort(host, newPort)
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
