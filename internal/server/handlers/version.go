package handlers

import (
	"net/http"
	"runtime"
	"sync"

	"github.com/fulmenhq/gofulmen/appidentity"
	"github.com/fulmenhq/gofulmen/crucible"

	"github.com/petrefiedthunder/mcp-fda/internal/appid"
)

// AppVersion is injected from main via SetVersionInfo
var AppVersion = "dev"

var build = struct {
	sync.RWMutex
	commit    string
	buildDate string
	identity  *appidentity.Identity
	service   ServiceInfo
}{
	commit:    "unknown",
	buildDate: "unknown",
}

// ServiceInfo describes the MCP surface served by this process.
type ServiceInfo struct {
	Upstream  string   `json:"upstream"`
	Transport string   `json:"transport"`
	Tools     []string `json:"tools"`
}

// SetServiceInfo records the upstream and tool catalog reported by /version.
func SetServiceInfo(info ServiceInfo) {
	build.Lock()
	defer build.Unlock()
	build.service = info
}

// SetVersionInfo sets the build information reported by /version.
func SetVersionInfo(version, commit, buildDate string) {
	build.Lock()
	defer build.Unlock()
	AppVersion = version
	build.commit = commit
	build.buildDate = buildDate
}

// SetAppIdentity overrides the compiled-in identity.
func SetAppIdentity(identity *appidentity.Identity) {
	build.Lock()
	defer build.Unlock()
	build.identity = identity
}

// VersionResponse is the /version body.
type VersionResponse struct {
	App          AppInfo     `json:"app"`
	Service      ServiceInfo `json:"service"`
	Dependencies DepInfo     `json:"dependencies"`
	Runtime      RuntimeInfo `json:"runtime"`
}

type AppInfo struct {
	Name      string `json:"name"`
	Version   string `json:"version"`
	Commit    string `json:"git_commit"`
	BuildDate string `json:"build_date"`
	GoVersion string `json:"go_version,omitempty"`
}

type DepInfo struct {
	Gofulmen string `json:"gofulmen"`
	Crucible string `json:"crucible"`
}

type RuntimeInfo struct {
	Platform      string `json:"platform"`
	NumCPU        int    `json:"num_cpu"`
	NumGoroutines int    `json:"num_goroutines"`
}

func currentVersion() VersionResponse {
	build.RLock()
	defer build.RUnlock()

	name := appid.Identity.BinaryName
	if build.identity != nil && build.identity.BinaryName != "" {
		name = build.identity.BinaryName
	}
	deps := crucible.GetVersion()

	return VersionResponse{
		App: AppInfo{
			Name:      name,
			Version:   AppVersion,
			Commit:    build.commit,
			BuildDate: build.buildDate,
			GoVersion: runtime.Version(),
		},
		Service: build.service,
		Dependencies: DepInfo{
			Gofulmen: deps.Gofulmen,
			Crucible: deps.Crucible,
		},
		Runtime: RuntimeInfo{
			Platform:      runtime.GOOS + "/" + runtime.GOARCH,
			NumCPU:        runtime.NumCPU(),
			NumGoroutines: runtime.NumGoroutine(),
		},
	}
}

// VersionHandler reports build, upstream and tool information.
func VersionHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, currentVersion())
}
