package envs

import (
	"context"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"

	"github.com/glorpus-work/pyscope/pkg/model"
)

// SystemDiscovery finds bare interpreter installations: everything named
// python/python3 on PATH plus the well-known install directories.
type SystemDiscovery struct {
	prober Prober
	log    *slog.Logger
}

// NewSystemDiscovery creates the system interpreter strategy.
func NewSystemDiscovery(prober Prober, log *slog.Logger) *SystemDiscovery {
	if log == nil {
		log = slog.Default()
	}
	return &SystemDiscovery{prober: prober, log: log}
}

func (d *SystemDiscovery) Name() string { return "system" }

// Discover probes PATH entries and common install locations.
func (d *SystemDiscovery) Discover(ctx context.Context) ([]model.Environment, error) {
	var candidates []string
	for _, binary := range pythonBinaryNames() {
		if path, err := exec.LookPath(binary); err == nil {
			candidates = append(candidates, path)
		}
	}
	candidates = append(candidates, globInstallDirs()...)

	var found []model.Environment
	seen := make(map[string]struct{})
	for _, candidate := range candidates {
		if ctx.Err() != nil {
			return found, ctx.Err()
		}
		real := realPath(candidate)
		if _, ok := seen[real]; ok {
			continue
		}
		seen[real] = struct{}{}

		ver, ok := d.prober.Probe(ctx, candidate)
		if !ok {
			continue
		}
		found = append(found, model.NewEnvironment(
			model.KindSystem, filepath.Base(candidate), candidate, "", "", ver))
	}
	return found, nil
}

// DirScanDiscovery finds virtual environments, conda environments, and
// version-manager installations by scanning directory trees for the layout
// markers each kind leaves behind (pyvenv.cfg, conda-meta, a bin/python).
type DirScanDiscovery struct {
	name     string
	kind     model.EnvironmentKind
	roots    []string
	maxDepth int
	prober   Prober
	log      *slog.Logger
}

// NewVenvDiscovery scans the conventional venv directories under home, and
// home itself one level deep for project-local envs.
func NewVenvDiscovery(home string, prober Prober, log *slog.Logger) *DirScanDiscovery {
	return &DirScanDiscovery{
		name: "venv",
		kind: model.KindVirtualEnv,
		roots: []string{
			filepath.Join(home, ".virtualenvs"),
			filepath.Join(home, ".venvs"),
			filepath.Join(home, "venvs"),
			filepath.Join(home, "envs"),
			home,
		},
		maxDepth: 2,
		prober:   prober,
		log:      log,
	}
}

// NewCondaDiscovery scans the conda installation env directories.
func NewCondaDiscovery(home string, prober Prober, log *slog.Logger) *DirScanDiscovery {
	return &DirScanDiscovery{
		name: "conda",
		kind: model.KindConda,
		roots: []string{
			filepath.Join(home, "anaconda3", "envs"),
			filepath.Join(home, "miniconda3", "envs"),
			filepath.Join(home, ".conda", "envs"),
		},
		maxDepth: 1,
		prober:   prober,
		log:      log,
	}
}

// NewPyenvDiscovery scans pyenv-managed installations.
func NewPyenvDiscovery(home string, prober Prober, log *slog.Logger) *DirScanDiscovery {
	return &DirScanDiscovery{
		name:     "pyenv",
		kind:     model.KindVersionManager,
		roots:    []string{filepath.Join(home, ".pyenv", "versions")},
		maxDepth: 1,
		prober:   prober,
		log:      log,
	}
}

func (d *DirScanDiscovery) Name() string { return d.name }

// Discover walks each root up to maxDepth, classifying directories that look
// like environments.
func (d *DirScanDiscovery) Discover(ctx context.Context) ([]model.Environment, error) {
	var found []model.Environment
	seen := make(map[string]struct{})
	for _, root := range d.roots {
		if ctx.Err() != nil {
			return found, ctx.Err()
		}
		d.scan(ctx, root, 0, seen, &found)
	}
	return found, nil
}

func (d *DirScanDiscovery) scan(ctx context.Context, dir string, depth int, seen map[string]struct{}, found *[]model.Environment) {
	if depth > d.maxDepth || ctx.Err() != nil {
		return
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		return
	}
	for _, entry := range entries {
		if !entry.IsDir() || skipDirName(entry.Name()) {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		real := realPath(path)
		if _, ok := seen[real]; ok {
			continue
		}
		if env, ok := d.inspect(ctx, path); ok {
			seen[real] = struct{}{}
			*found = append(*found, env)
			continue
		}
		d.scan(ctx, path, depth+1, seen, found)
	}
}

// inspect decides whether path is an environment directory and builds the
// Environment record if so.
func (d *DirScanDiscovery) inspect(ctx context.Context, path string) (model.Environment, bool) {
	// conda-meta identifies a conda env regardless of which tree it sits in.
	kind := d.kind
	if isDir(filepath.Join(path, "conda-meta")) {
		kind = model.KindConda
	}

	interpreter := interpreterIn(path, kind)
	if interpreter == "" {
		return model.Environment{}, false
	}
	ver, ok := d.prober.Probe(ctx, interpreter)
	if !ok {
		return model.Environment{}, false
	}

	pipPath := pipIn(path, kind)
	return model.NewEnvironment(kind, filepath.Base(path), interpreter, pipPath, path, ver), true
}

func skipDirName(name string) bool {
	switch name {
	case "__pycache__", "node_modules", ".git":
		return true
	}
	return len(name) > 0 && name[0] == '.' && name != ".virtualenvs" && name != ".venvs" && name != ".venv" && name != ".conda" && name != ".pyenv"
}

func pythonBinaryNames() []string {
	if runtime.GOOS == "windows" {
		return []string{"python.exe", "python3.exe"}
	}
	return []string{"python3", "python"}
}

// globInstallDirs lists interpreter binaries in the usual install locations.
func globInstallDirs() []string {
	var patterns []string
	if runtime.GOOS == "windows" {
		local := os.Getenv("LOCALAPPDATA")
		for _, p := range []string{
			filepath.Join(os.Getenv("ProgramFiles"), "Python*", "python.exe"),
			filepath.Join(local, "Programs", "Python", "Python*", "python.exe"),
		} {
			patterns = append(patterns, p)
		}
	} else {
		patterns = []string{
			"/usr/bin/python3*",
			"/usr/local/bin/python3*",
			"/opt/homebrew/bin/python3*",
		}
	}
	var out []string
	for _, pattern := range patterns {
		matches, err := filepath.Glob(pattern)
		if err != nil {
			continue
		}
		for _, m := range matches {
			if isExecutableFile(m) {
				out = append(out, m)
			}
		}
	}
	return out
}

func interpreterIn(envPath string, kind model.EnvironmentKind) string {
	var candidates []string
	if runtime.GOOS == "windows" {
		candidates = []string{
			filepath.Join(envPath, "python.exe"),
			filepath.Join(envPath, "Scripts", "python.exe"),
		}
	} else {
		candidates = []string{filepath.Join(envPath, "bin", "python")}
		if kind == model.KindVersionManager {
			candidates = append(candidates, filepath.Join(envPath, "bin", "python3"))
		}
	}
	for _, c := range candidates {
		if isExecutableFile(c) {
			return c
		}
	}
	return ""
}

func pipIn(envPath string, _ model.EnvironmentKind) string {
	var candidate string
	if runtime.GOOS == "windows" {
		candidate = filepath.Join(envPath, "Scripts", "pip.exe")
	} else {
		candidate = filepath.Join(envPath, "bin", "pip")
	}
	if isExecutableFile(candidate) {
		return candidate
	}
	return ""
}

func realPath(path string) string {
	if resolved, err := filepath.EvalSymlinks(path); err == nil {
		return resolved
	}
	return path
}

func isDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

func isExecutableFile(path string) bool {
	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		return false
	}
	if runtime.GOOS == "windows" {
		return true
	}
	return info.Mode()&0o111 != 0
}
