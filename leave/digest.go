package leave

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"time"

	"github.com/warp/hr-extensions/hr"
)

// =============================================================================
// DIGEST - Rendered list of upcoming leaves
// =============================================================================

// Digest is the finder result at a point in time.
type Digest struct {
	GeneratedAt time.Time
	Until       time.Time
	Leaves      []UpcomingLeave
}

// BuildDigest runs the finder and wraps its result.
func (f *Finder) BuildDigest(ctx context.Context, now time.Time) (Digest, error) {
	leaves, err := f.FindUpcoming(ctx, now)
	if err != nil {
		return Digest{}, err
	}
	return Digest{GeneratedAt: now, Until: now.Add(Window), Leaves: leaves}, nil
}

// Subject is the email subject line of the digest.
func (d Digest) Subject() string {
	return fmt.Sprintf("Upcoming leaves %s to %s (%d)",
		hr.FormatDate(d.GeneratedAt), hr.FormatDate(d.Until), len(d.Leaves))
}

var digestTemplate = template.Must(template.New("digest").Funcs(template.FuncMap{
	"date": hr.FormatDate,
}).Parse(`<!DOCTYPE html>
<html>
<head><meta charset="utf-8"><title>Upcoming Leaves</title></head>
<body style="font-family: system-ui; max-width: 800px; margin: 40px auto;">
<h1>Upcoming Leaves</h1>
<p>Approved leaves between {{date .GeneratedAt}} and {{date .Until}}.</p>
{{- if .Leaves}}
<table border="1" cellpadding="6" cellspacing="0">
<thead><tr><th>Employee</th><th>Days</th><th>From</th><th>To</th></tr></thead>
<tbody>
{{- range .Leaves}}
<tr><td>{{.EmployeeName}}</td><td>{{.LeaveDays}}</td><td>{{date .StartDate}}</td><td>{{date .EndDate}}</td></tr>
{{- end}}
</tbody>
</table>
{{- else}}
<p>No upcoming leaves.</p>
{{- end}}
</body>
</html>
`))

// RenderHTML renders the digest as an HTML document.
func (d Digest) RenderHTML() ([]byte, error) {
	var buf bytes.Buffer
	if err := digestTemplate.Execute(&buf, d); err != nil {
		return nil, fmt.Errorf("failed to render digest: %w", err)
	}
	return buf.Bytes(), nil
}
