package cmd

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tolltariff/internal/config"
)

// setup writes a config pointing every path into a temp directory
func setup(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	cfg := config.Default()
	cfg.Data.Dir = dir
	cfg.Data.DatabaseURL = filepath.Join(dir, "tolltariff.db")
	cfg.Data.FTAIndex = filepath.Join(dir, "ratetradeagreements_index.json")
	cfg.Directory.LandgroupsMap = filepath.Join(dir, "landgroups_map.json")
	cfg.Directory.CountryNames = filepath.Join(dir, "country_names.json")
	cfg.Logging.Level = "error"

	path := filepath.Join(dir, "tolltariff.yaml")
	require.NoError(t, cfg.Save(path))
	return path
}

func run(t *testing.T, cfgPath string, args ...string) (string, error) {
	t.Helper()
	outputFormat, originGroup, importFile, importOut = "", "", "", ""

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(append([]string{"--config", cfgPath}, args...))
	err := rootCmd.Execute()
	return out.String(), err
}

func TestVersion(t *testing.T) {
	cfg := setup(t)
	out, err := run(t, cfg, "version")
	require.NoError(t, err)
	assert.Contains(t, out, Version)
}

func TestSeedAndQuery(t *testing.T) {
	cfg := setup(t)

	out, err := run(t, cfg, "seed-demo")
	require.NoError(t, err)
	assert.Contains(t, out, "6 rates added")

	out, err = run(t, cfg, "seed-demo")
	require.NoError(t, err)
	assert.Contains(t, out, "0 rates added")

	out, err = run(t, cfg, "lookup", "02013000", "--origin-group", "TEF", "--format", "json")
	require.NoError(t, err)
	var view struct {
		Code  string `json:"code"`
		Rates []struct {
			Agreement string `json:"agreement"`
		} `json:"rates"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &view), out)
	assert.Equal(t, "02013000", view.Code)
	require.Len(t, view.Rates, 1)
	assert.Equal(t, "TEF", view.Rates[0].Agreement)

	out, err = run(t, cfg, "search", "horses")
	require.NoError(t, err)
	assert.Contains(t, out, "0101.21")
	assert.Contains(t, out, "Live horses")

	out, err = run(t, cfg, "zero-duty", "02013000")
	require.NoError(t, err)
	assert.Contains(t, out, "TGS1")

	out, err = run(t, cfg, "catalog", "--format", "json")
	require.NoError(t, err)
	var catalog struct {
		Agreements []struct {
			Code string `json:"code"`
		} `json:"agreements"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &catalog), out)
	assert.Len(t, catalog.Agreements, 5)

	out, err = run(t, cfg, "best-origin", "02013000", "--weight-kg", "10")
	require.NoError(t, err)
	assert.Contains(t, out, "TGS1")
	assert.Contains(t, out, "1205.00")
	assert.Contains(t, out, "3440.00")

	_, err = run(t, cfg, "lookup", "9999.99")
	assert.Error(t, err)
}

func TestImportFTA(t *testing.T) {
	cfg := setup(t)
	src := filepath.Join(t.TempDir(), "ratetradeagreements.json")
	require.NoError(t, os.WriteFile(src, []byte(`{"commodities":[
		{"id":"02013000","rateTradeAgreements":[{"customDuty":{"classifier":"FREE"},"landCodes":["EU","GB"]}]}
	]}`), 0644))

	out, err := run(t, cfg, "import", "fta", "--file", src)
	require.NoError(t, err)
	assert.Contains(t, out, "fta")

	out, err = run(t, cfg, "fta", "02013000")
	require.NoError(t, err)
	assert.Contains(t, out, "FREE")
	assert.Contains(t, out, "European Union")
}

func TestUnsupportedFormat(t *testing.T) {
	cfg := setup(t)
	_, err := run(t, cfg, "catalog", "--format", "xml")
	assert.Error(t, err)
}
