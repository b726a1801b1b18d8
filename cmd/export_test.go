package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExportCommandCSV(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "orders.csv")
	out := filepath.Join(dir, "template.csv")
	data := "客户名称,CAD,数量,到货日期\n客户A,CAD-001,100,2025-06-01\n"
	require.NoError(t, os.WriteFile(in, []byte(data), 0o644))

	var buf bytes.Buffer
	rootCmd.SetOut(&buf)
	rootCmd.SetErr(&buf)
	rootCmd.SetArgs([]string{"export", in, out, "--format", "csv"})
	require.NoError(t, rootCmd.Execute())
	assert.Contains(t, buf.String(), "wrote 1 rows")

	written, err := os.ReadFile(out)
	require.NoError(t, err)
	body := strings.TrimPrefix(string(written), "\xef\xbb\xbf")
	assert.True(t, strings.HasPrefix(body, "Creation Date,Sourcing,IO,CAD,Qty,客户名称,Request Date"))
	assert.Contains(t, body, "CAD-001,100,客户A,2025-06-01")
}

func TestExportCommandBadFormat(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "orders.csv")
	require.NoError(t, os.WriteFile(in, []byte("客户名称,CAD,数量,到货日期\n"), 0o644))

	rootCmd.SetArgs([]string{"export", in, filepath.Join(dir, "out.csv"), "--format", "pdf"})
	rootCmd.SilenceUsage = true
	rootCmd.SilenceErrors = true
	assert.Error(t, rootCmd.Execute())
}
