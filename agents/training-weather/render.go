package trainingweather

import (
	"bytes"
	"fmt"
	"html/template"
	"io"
	"strings"
	"text/tabwriter"

	"training-weather/internal/decision"
	"training-weather/internal/models"
)

// WriteReport prints a plain-text version of the report, used by --once
func WriteReport(w io.Writer, report *models.TrainingReport) error {
	var sb strings.Builder

	name := report.Location.Name
	if name == "" {
		name = report.Query
	}
	fmt.Fprintf(&sb, "Training weather for %s", name)
	if report.Location.Country != "" {
		fmt.Fprintf(&sb, ", %s", report.Location.Country)
	}
	fmt.Fprintf(&sb, " (%s)\n", report.Date.Format("Mon Jan 2 15:04"))
	fmt.Fprintf(&sb, "Decision: %s [%s]\n", report.Status().Label(), report.Status())
	if report.Summary != "" {
		fmt.Fprintf(&sb, "%s\n", report.Summary)
	}

	for _, problem := range report.Errors {
		fmt.Fprintf(&sb, "! %s\n", problem)
	}

	if c := report.Current; c != nil {
		o := c.Observation
		fmt.Fprintf(&sb, "\nNow: %s, %.1f°C\n", o.Condition.Text, o.TempC)
		fmt.Fprintf(&sb, "  Precipitation: %.1f mm [%s]\n", o.PrecipitationMm, decision.PrecipitationLevel(o.PrecipitationMm))
		fmt.Fprintf(&sb, "  Wind: %.0f km/h [%s]\n", o.WindKph, decision.WindLevel(o.WindKph))
		fmt.Fprintf(&sb, "  Status: %s\n", c.Recommendation.Label())
		for _, reason := range c.Reasons {
			fmt.Fprintf(&sb, "  - %s\n", reason)
		}
	}

	if _, err := io.WriteString(w, sb.String()); err != nil {
		return err
	}

	if win := report.Window; win != nil {
		fmt.Fprintf(w, "\nForecast %02d:00-%02d:00: %s\n", win.StartHour, win.EndHour, win.Status.Label())
		if len(win.Hours) == 0 {
			fmt.Fprintln(w, "  No forecast hours in this window.")
		} else {
			tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
			fmt.Fprintln(tw, "  HOUR\tCONDITION\tTEMP\tPRECIP\tRAIN%\tTHUNDER\tSTATUS")
			for _, h := range win.Hours {
				o := h.Observation
				chance, _ := o.ChanceOfRain()
				fmt.Fprintf(tw, "  %s\t%s\t%.1f°C\t%.1f mm\t%d%%\t%s\t%s\n",
					o.Time.Format("15:04"), o.Condition.Text, o.TempC, o.PrecipitationMm, chance, yesNo(o.HasThunder), h.Recommendation)
			}
			if err := tw.Flush(); err != nil {
				return err
			}
		}
	}

	if report.Briefing != "" {
		fmt.Fprintf(w, "\n%s\n", report.Briefing)
	}
	if report.Radar.ImageURL != "" {
		fmt.Fprintf(w, "\nRadar: %s\n", report.Radar.ImageURL)
	}
	return nil
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}

const emailTemplate = `
<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
    <title>Training Weather Report</title>
    <style>
        body { font-family: Arial, sans-serif; line-height: 1.6; color: #333; max-width: 800px; margin: 0 auto; padding: 20px; }
        .header { background-color: #2196F3; color: white; padding: 20px; border-radius: 8px; margin-bottom: 20px; text-align: center; }
        .status { color: white; padding: 15px; border-radius: 8px; margin-bottom: 20px; font-size: 20px; font-weight: bold; text-align: center; }
        .section { background-color: #f8f9fa; padding: 15px; border-radius: 8px; margin-bottom: 20px; }
        .problem { background-color: #FDECEA; color: #B71C1C; padding: 10px 15px; border-radius: 8px; margin-bottom: 10px; }
        .metric { display: inline-block; margin: 10px 15px 10px 0; }
        .metric-label { font-weight: bold; color: #666; }
        .metric-value { font-size: 18px; }
        table { width: 100%; border-collapse: collapse; }
        th, td { padding: 6px 8px; border-bottom: 1px solid #ddd; text-align: left; }
        .footer { text-align: center; color: #666; font-size: 12px; margin-top: 30px; border-top: 1px solid #ddd; padding-top: 15px; }
    </style>
</head>
<body>
    <div class="header">
        <h1>Training Weather Report</h1>
        <h2>{{.Report.Location.Name}}{{if .Report.Location.Country}}, {{.Report.Location.Country}}{{end}}</h2>
        <p>{{.Report.Date.Format "Monday, January 2, 2006 at 15:04"}}</p>
    </div>

    <div class="status" style="background-color: {{.Report.Status.Color | css}};">
        {{.Report.Status.Label}}
        <div style="font-size: 14px; font-weight: normal;">{{.Report.Summary}}</div>
    </div>

    {{range .Report.Errors}}<div class="problem">{{.}}</div>{{end}}

    {{if .Report.Briefing}}
    <div class="section"><p>{{.Report.Briefing}}</p></div>
    {{end}}

    {{with .Report.Current}}
    <div class="section">
        <h3>Current conditions</h3>
        <div class="metric">
            <div class="metric-label">Temperature</div>
            <div class="metric-value">{{printf "%.1f°C" .Observation.TempC}}</div>
        </div>
        <div class="metric">
            <div class="metric-label">Precipitation</div>
            <div class="metric-value" style="color: {{precipColor .Observation.PrecipitationMm | css}};">{{printf "%.1f mm" .Observation.PrecipitationMm}}</div>
        </div>
        <div class="metric">
            <div class="metric-label">Wind</div>
            <div class="metric-value" style="color: {{windColor .Observation.WindKph | css}};">{{printf "%.0f km/h" .Observation.WindKph}}</div>
        </div>
        <p><strong>Conditions:</strong> {{.Observation.Condition.Text}}{{if .Observation.Condition.Icon}} <img src="{{iconURL .Observation.Condition.Icon}}" alt="{{.Observation.Condition.Text}}">{{end}}</p>
        <p><strong>Decision:</strong> <span style="color: {{.Recommendation.Color | css}}; font-weight: bold;">{{.Recommendation.Label}}</span></p>
        {{if .Reasons}}<ul>{{range .Reasons}}<li>{{.}}</li>{{end}}</ul>{{end}}
    </div>
    {{end}}

    {{with .Report.Window}}
    <div class="section">
        <h3>Forecast {{printf "%02d:00-%02d:00" .StartHour .EndHour}}: <span style="color: {{.Status.Color | css}};">{{.Status.Label}}</span></h3>
        {{if .Hours}}
        <table>
            <tr><th>Hour</th><th>Conditions</th><th>Temp</th><th>Precipitation</th><th>Chance of rain</th><th>Wind</th><th>Decision</th></tr>
            {{range .Hours}}
            <tr>
                <td>{{.Observation.Time.Format "15:04"}}</td>
                <td>{{.Observation.Condition.Text}}{{if .Observation.HasThunder}} ⚡{{end}}</td>
                <td>{{printf "%.1f°C" .Observation.TempC}}</td>
                <td style="color: {{precipColor .Observation.PrecipitationMm | css}};">{{printf "%.1f mm" .Observation.PrecipitationMm}}</td>
                <td>{{with .Observation.ChanceOfRainPct}}<span style="color: {{chanceColor . | css}};">{{.}}%</span>{{else}}-{{end}}</td>
                <td style="color: {{windColor .Observation.WindKph | css}};">{{printf "%.0f km/h" .Observation.WindKph}}</td>
                <td style="color: {{.Recommendation.Color | css}}; font-weight: bold;">{{.Recommendation.Label}}</td>
            </tr>
            {{end}}
        </table>
        {{else}}
        <p>No forecast hours in this window.</p>
        {{end}}
    </div>
    {{end}}

    {{if .Report.Radar.ImageURL}}
    <div class="section">
        <h3>Precipitation radar</h3>
        <img src="{{.Report.Radar.ImageURL}}" alt="Precipitation radar" style="max-width: 100%;">
    </div>
    {{end}}

    <div class="section">
        <h3>Legend</h3>
        {{range .Legend}}
        <p><strong style="color: {{.Recommendation.Color | css}};">{{.Recommendation.Label}}</strong><br>
        {{range .Conditions}}&bull; {{.}}<br>{{end}}</p>
        {{end}}
    </div>

    <div class="footer">
        <p>Generated by Training Weather Agent &bull; Weather data from WeatherAPI.com</p>
    </div>
</body>
</html>
`

var emailTmpl = template.Must(template.New("email").Funcs(template.FuncMap{
	"precipColor": func(mm float64) string { return decision.PrecipitationLevel(mm).Color() },
	"windColor":   func(kph float64) string { return decision.WindLevel(kph).Color() },
	"chanceColor": func(pct *int) string { return decision.ChanceOfRainLevel(*pct).Color() },
	"css":         func(s string) template.CSS { return template.CSS(s) },
	"iconURL": func(icon string) string {
		if strings.HasPrefix(icon, "//") {
			return "https:" + icon
		}
		return icon
	},
}).Parse(emailTemplate))

// generateEmailBody creates HTML email content for a training weather report
func generateEmailBody(report *models.TrainingReport) (string, error) {
	data := struct {
		Report *models.TrainingReport
		Legend []decision.LegendEntry
	}{
		Report: report,
		Legend: decision.Legend(),
	}

	var buf bytes.Buffer
	if err := emailTmpl.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}
