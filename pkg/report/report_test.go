// pkg/report/report_test.go
// TEST TYPE: Unit Test
// DEPENDENCIES: None (in-memory rendering)
// PURPOSE: Test XML report structure, counters and escaping

package report_test

import (
	"bytes"
	"testing"
	"time"

	"github.com/beevik/etree"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ghostytools/wintweak/pkg/backup"
	"github.com/ghostytools/wintweak/pkg/engine"
	"github.com/ghostytools/wintweak/pkg/report"
	"github.com/ghostytools/wintweak/pkg/tweaks"
)

func TestWriteXML(t *testing.T) {
	generated := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	r := report.Report{
		GeneratedAt: generated,
		Statuses: []engine.TweakStatus{
			{
				Tweak: tweaks.Tweak{ID: "disable_telemetry", Name: "Disable Telemetry",
					Category: tweaks.CategoryPrivacy, Risk: tweaks.RiskLow},
				State: engine.StateApplied,
			},
			{
				Tweak: tweaks.Tweak{ID: "show_hidden_files", Name: "Show Hidden Files",
					Category: tweaks.CategoryUI, Risk: tweaks.RiskLow},
				State: engine.StateNotApplied,
			},
		},
		Backups: []backup.Record{
			{
				ID:          "reg_backup_20250601_115900",
				CreatedAt:   generated.Add(-time.Minute),
				Description: `before applying: Disable Telemetry & "friends"`,
				SourceKeys:  []string{`HKEY_LOCAL_MACHINE\SOFTWARE\Policies\Microsoft\Windows\DataCollection`},
			},
			{
				ID:          "reg_backup_20250601_115930",
				CreatedAt:   generated.Add(-30 * time.Second),
				Description: "before applying: Disable Startup Program Delay",
				SourceKeys:  []string{`HKEY_CURRENT_USER\Software\Microsoft\Windows\CurrentVersion\Explorer\Serialize`},
				Skipped:     true,
			},
		},
	}

	var buf bytes.Buffer
	require.NoError(t, report.WriteXML(&buf, r))

	doc := etree.NewDocument()
	require.NoError(t, doc.ReadFromBytes(buf.Bytes()))

	root := doc.SelectElement("wintweak-report")
	require.NotNil(t, root)
	assert.Equal(t, "2025-06-01T12:00:00Z", root.SelectAttrValue("generated-at", ""))

	tweaksEl := root.SelectElement("tweaks")
	require.NotNil(t, tweaksEl)
	assert.Equal(t, "2", tweaksEl.SelectAttrValue("total", ""))
	assert.Equal(t, "1", tweaksEl.SelectAttrValue("applied", ""))

	rows := tweaksEl.SelectElements("tweak")
	require.Len(t, rows, 2)
	assert.Equal(t, "disable_telemetry", rows[0].SelectAttrValue("id", ""))
	assert.Equal(t, "applied", rows[0].SelectAttrValue("state", ""))
	assert.Equal(t, "not applied", rows[1].SelectAttrValue("state", ""))

	backupsEl := root.SelectElement("backups")
	require.NotNil(t, backupsEl)
	assert.Equal(t, "2", backupsEl.SelectAttrValue("total", ""))

	recs := backupsEl.SelectElements("backup")
	require.Len(t, recs, 2)
	// Ampersands and quotes survive the round trip.
	assert.Equal(t, `before applying: Disable Telemetry & "friends"`,
		recs[0].SelectElement("description").Text())
	assert.Equal(t, "true", recs[1].SelectAttrValue("skipped", ""))
	assert.Empty(t, recs[0].SelectAttrValue("skipped", ""))
}

func TestWriteXMLEmptyReport(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, report.WriteXML(&buf, report.Report{GeneratedAt: time.Now()}))

	doc := etree.NewDocument()
	require.NoError(t, doc.ReadFromBytes(buf.Bytes()))
	root := doc.SelectElement("wintweak-report")
	require.NotNil(t, root)
	assert.Equal(t, "0", root.SelectElement("tweaks").SelectAttrValue("total", ""))
	assert.Equal(t, "0", root.SelectElement("backups").SelectAttrValue("total", ""))
}
