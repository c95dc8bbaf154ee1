// Package report renders an XML maintenance report: tweak states from a
// live probe plus a summary of the backup ledger.
package report

import (
	"io"
	"strconv"
	"time"

	"github.com/beevik/etree"

	"github.com/ghostytools/wintweak/pkg/backup"
	"github.com/ghostytools/wintweak/pkg/engine"
)

// Report is the assembled input for one rendering.
type Report struct {
	GeneratedAt time.Time
	Statuses    []engine.TweakStatus
	Backups     []backup.Record
}

// WriteXML renders the report as indented XML.
func WriteXML(w io.Writer, r Report) error {
	doc := etree.NewDocument()
	doc.CreateProcInst("xml", `version="1.0" encoding="UTF-8"`)

	root := doc.CreateElement("wintweak-report")
	root.CreateAttr("generated-at", r.GeneratedAt.UTC().Format(time.RFC3339))

	tweaksEl := root.CreateElement("tweaks")
	applied := 0
	for _, st := range r.Statuses {
		el := tweaksEl.CreateElement("tweak")
		el.CreateAttr("id", st.Tweak.ID)
		el.CreateAttr("state", st.State.String())
		el.CreateElement("name").SetText(st.Tweak.Name)
		el.CreateElement("category").SetText(string(st.Tweak.Category))
		el.CreateElement("risk").SetText(string(st.Tweak.Risk))
		if st.Err != nil {
			el.CreateElement("error").SetText(st.Err.Error())
		}
		if st.State == engine.StateApplied {
			applied++
		}
	}
	tweaksEl.CreateAttr("total", strconv.Itoa(len(r.Statuses)))
	tweaksEl.CreateAttr("applied", strconv.Itoa(applied))

	backupsEl := root.CreateElement("backups")
	backupsEl.CreateAttr("total", strconv.Itoa(len(r.Backups)))
	for _, rec := range r.Backups {
		el := backupsEl.CreateElement("backup")
		el.CreateAttr("id", rec.ID)
		el.CreateAttr("created-at", rec.CreatedAt.UTC().Format(time.RFC3339))
		if rec.Skipped {
			el.CreateAttr("skipped", "true")
		}
		el.CreateElement("description").SetText(rec.Description)
		keysEl := el.CreateElement("keys")
		for _, key := range rec.SourceKeys {
			keysEl.CreateElement("key").SetText(key)
		}
	}

	doc.Indent(2)
	_, err := doc.WriteTo(w)
	return err
}
