package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/annel0/voxel-core/internal/world/block"
	"gopkg.in/yaml.v3"
)

// Config корневая структура конфигурации приложения.
type Config struct {
	World     WorldConfig     `yaml:"world"`
	Server    ServerConfig    `yaml:"server"`
	Telemetry TelemetryConfig `yaml:"telemetry"`
	Logging   LoggingConfig   `yaml:"logging"`
}

// WorldConfig - параметры мира и политики жизненного цикла чанков
type WorldConfig struct {
	Seed             int64   `yaml:"seed"`
	Generator        string  `yaml:"generator"` // "flat" или "perlin"
	FillBlock        string  `yaml:"fill_block"`
	GenerateRadius   int     `yaml:"generate_radius"`
	EvictRadius      int     `yaml:"evict_radius"`
	RemeshBudget     int     `yaml:"remesh_budget"`
	InteractionRange float32 `yaml:"interaction_range"`
	Atlas            string  `yaml:"atlas"` // путь к JSON карте атласа, пусто - атлас по умолчанию
}

type ServerConfig struct {
	RESTPort       int  `yaml:"rest_port"`
	MetricsEnabled bool `yaml:"metrics"`
}

type TelemetryConfig struct {
	Enabled     bool   `yaml:"enabled"`
	ServiceName string `yaml:"service_name"`
}

type LoggingConfig struct {
	Level string `yaml:"level"`
	Dir   string `yaml:"dir"` // каталог файловых логов, пусто - только консоль
}

const (
	GeneratorFlat   = "flat"
	GeneratorPerlin = "perlin"
)

// Default возвращает конфигурацию по умолчанию
func Default() *Config {
	return &Config{
		World: WorldConfig{
			Seed:             1,
			Generator:        GeneratorFlat,
			FillBlock:        "grass",
			GenerateRadius:   6,
			EvictRadius:      8,
			RemeshBudget:     6,
			InteractionRange: 5,
		},
		Server: ServerConfig{
			RESTPort:       8088,
			MetricsEnabled: true,
		},
		Telemetry: TelemetryConfig{
			ServiceName: "voxel-core",
		},
		Logging: LoggingConfig{
			Level: "INFO",
		},
	}
}

// GetRESTPort возвращает REST API порт с поддержкой fallback значений
func (s *ServerConfig) GetRESTPort() int {
	return getPortWithEnvFallback(s.RESTPort, "VOXEL_REST_PORT", 8088)
}

// getPortWithEnvFallback возвращает порт с приоритетом: config -> env -> default
func getPortWithEnvFallback(configPort int, envVar string, defaultPort int) int {
	if configPort > 0 {
		return configPort
	}

	if envVal := os.Getenv(envVar); envVal != "" {
		if port, err := strconv.Atoi(envVal); err == nil && port > 0 {
			return port
		}
	}

	return defaultPort
}

// FillBlockID возвращает блок для плоского генератора
func (w *WorldConfig) FillBlockID() (block.BlockID, error) {
	for _, id := range block.All() {
		if id.String() == w.FillBlock {
			return id, nil
		}
	}
	return block.EmptyBlockID, fmt.Errorf("неизвестный блок заполнения %q", w.FillBlock)
}

// Validate проверяет согласованность параметров
func (c *Config) Validate() error {
	w := c.World
	if w.GenerateRadius <= 0 {
		return fmt.Errorf("world.generate_radius должен быть > 0, получено %d", w.GenerateRadius)
	}
	if w.EvictRadius <= w.GenerateRadius {
		return fmt.Errorf("world.evict_radius (%d) должен превышать generate_radius (%d)", w.EvictRadius, w.GenerateRadius)
	}
	if w.RemeshBudget <= 0 {
		return fmt.Errorf("world.remesh_budget должен быть > 0, получено %d", w.RemeshBudget)
	}
	if w.InteractionRange <= 0 {
		return fmt.Errorf("world.interaction_range должен быть > 0")
	}
	switch w.Generator {
	case GeneratorFlat:
		if _, err := w.FillBlockID(); err != nil {
			return err
		}
	case GeneratorPerlin:
	default:
		return fmt.Errorf("неизвестный генератор %q", w.Generator)
	}
	if c.Server.RESTPort < 0 || c.Server.RESTPort > 65535 {
		return fmt.Errorf("server.rest_port вне диапазона: %d", c.Server.RESTPort)
	}
	return nil
}

// Load читает YAML файл конфигурации поверх значений по умолчанию.
// Если path == "", пытается прочитать путь из ENV VOXEL_CONFIG;
// если и он не задан, возвращает Default().
func Load(path string) (*Config, error) {
	if path == "" {
		path = os.Getenv("VOXEL_CONFIG")
		if path == "" {
			return Default(), nil
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("чтение конфигурации %s: %w", path, err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("разбор конфигурации %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("конфигурация %s: %w", path, err)
	}

	return cfg, nil
}
