package main

import (
	"os"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Port  int         `yaml:"port"`
	Store StoreConfig `yaml:"store"`
	Edge  EdgeConfig  `yaml:"edge"`
	// Tables overrides the GTFS table allow-list.
	Tables []string `yaml:"tables"`
}

type StoreConfig struct {
	// Backend is "s3" or "fs".
	Backend string `yaml:"backend"`
	// Root is the artifact directory for the fs backend.
	Root string `yaml:"root"`
	// S3 backend settings.
	Bucket    string `yaml:"bucket"`
	Prefix    string `yaml:"prefix"`
	Region    string `yaml:"region"`
	Endpoint  string `yaml:"endpoint"`
	AccessKey string `yaml:"accessKey"`
	SecretKey string `yaml:"secretKey"`
}

type EdgeConfig struct {
	// Provider is "sqlite", "memory" or "off".
	Provider string `yaml:"provider"`
	// Path is the sqlite database file.
	Path string `yaml:"path"`
}

func getConfig(filename string) (Config, error) {
	config := Config{
		Port: 8080,
		Edge: EdgeConfig{Provider: "off", Path: "./edge-cache.db"},
	}
	configBytes, err := os.ReadFile(filename)
	if err != nil {
		return config, err
	}
	err = yaml.Unmarshal(configBytes, &config)
	return config, err
}
