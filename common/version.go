package common

import (
	"fmt"
	"runtime"
	"runtime/debug"
	"strings"
	"text/tabwriter"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/urfave/cli"
)

// Set at link time with -X. Empty values fall back to the VCS stamp of the
// Go toolchain.
var (
	NAME     = "tart"
	VERSION  = "development version"
	REVISION = ""
	BRANCH   = ""
	BUILT    = ""
)

var AppVersion AppVersionInfo

type AppVersionInfo struct {
	Name         string `json:"name"`
	Version      string `json:"version"`
	Revision     string `json:"revision"`
	Branch       string `json:"branch"`
	GOVersion    string `json:"go_version"`
	BuiltAt      string `json:"built_at"`
	OS           string `json:"os"`
	Architecture string `json:"architecture"`
}

func (v *AppVersionInfo) Printer(c *cli.Context) {
	_, _ = fmt.Fprint(c.App.Writer, v.Extended())
}

func (v *AppVersionInfo) Line() string {
	return fmt.Sprintf("%s %s (%s)", v.Name, v.Version, v.Revision)
}

func (v *AppVersionInfo) ShortLine() string {
	return fmt.Sprintf("%s (%s)", v.Version, v.Revision)
}

func (v *AppVersionInfo) Extended() string {
	b := new(strings.Builder)

	w := tabwriter.NewWriter(b, 0, 0, 1, ' ', 0)
	_, _ = fmt.Fprintf(w, "Version:\t%s\n", v.Version)
	_, _ = fmt.Fprintf(w, "Git revision:\t%s\n", v.Revision)
	_, _ = fmt.Fprintf(w, "Git branch:\t%s\n", v.Branch)
	_, _ = fmt.Fprintf(w, "GO version:\t%s\n", v.GOVersion)
	_, _ = fmt.Fprintf(w, "Built:\t%s\n", v.BuiltAt)
	_, _ = fmt.Fprintf(w, "OS/Arch:\t%s/%s\n", v.OS, v.Architecture)
	_ = w.Flush()

	return b.String()
}

// NewMetricsCollector returns a gauge with a constant value of 1, labeled
// with the build information.
func (v *AppVersionInfo) NewMetricsCollector() *prometheus.GaugeVec {
	labels := prometheus.Labels{
		"name":         v.Name,
		"version":      v.Version,
		"revision":     v.Revision,
		"branch":       v.Branch,
		"go_version":   v.GOVersion,
		"built_at":     v.BuiltAt,
		"os":           v.OS,
		"architecture": v.Architecture,
	}

	names := make([]string, 0, len(labels))
	for name := range labels {
		names = append(names, name)
	}

	buildInfo := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "tart_version_info",
		Help: "A metric with a constant '1' value labeled by different build stats fields.",
	}, names)
	buildInfo.With(labels).Set(1)

	return buildInfo
}

func newAppVersionInfo(info *debug.BuildInfo) AppVersionInfo {
	v := AppVersionInfo{
		Name:         NAME,
		Version:      VERSION,
		Revision:     REVISION,
		Branch:       BRANCH,
		GOVersion:    runtime.Version(),
		BuiltAt:      BUILT,
		OS:           runtime.GOOS,
		Architecture: runtime.GOARCH,
	}

	if info != nil {
		for _, setting := range info.Settings {
			switch {
			case setting.Key == "vcs.revision" && v.Revision == "":
				v.Revision = setting.Value[:min(len(setting.Value), 8)]
			case setting.Key == "vcs.time" && v.BuiltAt == "":
				v.BuiltAt = setting.Value
			}
		}
	}

	if v.Revision == "" {
		v.Revision = "HEAD"
	}
	if v.Branch == "" {
		v.Branch = "HEAD"
	}
	if v.BuiltAt == "" {
		v.BuiltAt = "unknown"
	}

	return v
}

func init() {
	info, _ := debug.ReadBuildInfo()
	AppVersion = newAppVersionInfo(info)
}
