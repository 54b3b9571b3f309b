// Package config loads the dashboard configuration from a YAML file
// with environment overrides and builds the shared backend client.
package config

import (
	"bytes"
	"errors"
	"io"
	"os"
	"time"

	"github.com/fondazionealfieri/clinicalfolders/pkg/backend"
	"github.com/fondazionealfieri/clinicalfolders/pkg/packet"

	"golang.org/x/time/rate"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Address string

	BackendURL   string
	BackendToken string

	PollInterval time.Duration
	PollTimeout  time.Duration

	StepDelay time.Duration

	Limiter *rate.Limiter

	Client *backend.Client
}

func Parse(path string) (*Config, error) {
	file, err := parseFile(path)

	if err != nil {
		return nil, err
	}

	c := &Config{
		Address: ":8080",

		PollInterval: 2 * time.Second,
		PollTimeout:  10 * time.Minute,

		StepDelay: time.Second,
	}

	if file.Address != "" {
		c.Address = file.Address
	}

	c.BackendURL = file.Backend.URL
	c.BackendToken = file.Backend.Token

	if file.Polling.Interval != "" {
		val, err := time.ParseDuration(file.Polling.Interval)

		if err != nil {
			return nil, err
		}

		c.PollInterval = val
	}

	if file.Polling.Timeout != "" {
		val, err := time.ParseDuration(file.Polling.Timeout)

		if err != nil {
			return nil, err
		}

		c.PollTimeout = val
	}

	if file.Pipeline.StepDelay != "" {
		val, err := time.ParseDuration(file.Pipeline.StepDelay)

		if err != nil {
			return nil, err
		}

		c.StepDelay = val
	}

	c.Limiter = createLimiter(file.Backend.Limit)

	if val := os.Getenv("PORT"); val != "" {
		c.Address = ":" + val
	}

	if val := os.Getenv("BACKEND_URL"); val != "" {
		c.BackendURL = val
	}

	if val := os.Getenv("BACKEND_TOKEN"); val != "" {
		c.BackendToken = val
	}

	options := []backend.RequestOption{}

	if c.BackendToken != "" {
		options = append(options, backend.WithToken(c.BackendToken))
	}

	c.Client = backend.New(c.BackendURL, options...)

	return c, nil
}

// FlowOptions translates the polling settings into packet options.
func (c *Config) FlowOptions() []packet.Option {
	options := []packet.Option{
		packet.WithInterval(c.PollInterval),
	}

	if c.PollTimeout > 0 {
		options = append(options, packet.WithTimeout(c.PollTimeout))
	}

	if c.Limiter != nil {
		options = append(options, packet.WithLimiter(c.Limiter))
	}

	return options
}

type configFile struct {
	Address string `yaml:"address"`

	Backend  backendConfig  `yaml:"backend"`
	Polling  pollingConfig  `yaml:"polling"`
	Pipeline pipelineConfig `yaml:"pipeline"`
}

type backendConfig struct {
	URL   string `yaml:"url"`
	Token string `yaml:"token"`

	Limit *int `yaml:"limit"`
}

type pollingConfig struct {
	Interval string `yaml:"interval"`
	Timeout  string `yaml:"timeout"`
}

type pipelineConfig struct {
	StepDelay string `yaml:"step_delay"`
}

// parseFile reads the YAML file, expanding ${VAR} references. A missing
// or empty path yields an empty file, so the defaults apply.
func parseFile(path string) (*configFile, error) {
	var config configFile

	if path == "" {
		return &config, nil
	}

	data, err := os.ReadFile(path)

	if err != nil {
		if os.IsNotExist(err) {
			return &config, nil
		}

		return nil, err
	}

	data = []byte(os.ExpandEnv(string(data)))

	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)

	if err := decoder.Decode(&config); err != nil && !errors.Is(err, io.EOF) {
		return nil, err
	}

	return &config, nil
}

func createLimiter(limit *int) *rate.Limiter {
	if limit == nil {
		return nil
	}

	return rate.NewLimiter(rate.Limit(*limit), *limit)
}
