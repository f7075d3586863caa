//go:build mage
// +build mage

package main

import (
	"os"
	"path/filepath"

	"github.com/magefile/mage/sh"
	// mage:import
	build "github.com/grafana/grafana-plugin-sdk-go/build"
)

func init() {
	// the plugin executable lives under cmd/ rather than the sdk default of ./pkg
	build.SetBeforeBuildCallback(func(cfg build.Config) (build.Config, error) {
		cfg.RootPackagePath = "./cmd/neo4j-datasource"
		return cfg, nil
	})
}

// TestShort runs the unit tests, skipping the ones that need a database.
func TestShort() error {
	return sh.RunV("go", "test", "./...", "-test.short")
}

// Integration runs the testcontainers backed tests against neo4j:5.
func Integration() error {
	return sh.RunV("go", "test", "-tags", "integration", "./...")
}

// CoverageShort runs the unit tests and writes an html coverage report.
func CoverageShort() error {
	if err := os.MkdirAll(filepath.Join(".", "coverage"), os.ModePerm); err != nil {
		return err
	}

	if err := sh.RunV("go", "test", "./...", "-test.short", "-cover", "-coverprofile=coverage/backend.out"); err != nil {
		return err
	}

	return sh.RunV("go", "tool", "cover", "-html=coverage/backend.out", "-o", "coverage/backend.html")
}

// Default configures the default target.
var Default = build.BuildAll
