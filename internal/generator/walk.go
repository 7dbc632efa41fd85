package generator

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"systemdcron/internal/crontab"
	"systemdcron/internal/identity"
	"systemdcron/internal/schedule"
	logx "systemdcron/pkg/logx"
)

// anacronHook is the cron.daily script that starts anacron; anacrontab
// is translated directly instead.
const anacronHook = "0anacron"

// runPartsName matches the names run-parts executes.
var runPartsName = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)

// packageLeftovers are suffixes package managers leave next to config files.
var packageLeftovers = []string{".dpkg-", ".rpmsave", ".rpmnew", ".rpmorig", ".ucf-"}

// readDir lists dir in lexical order. A missing directory is empty.
func (g *Generator) readDir(dir string) []os.DirEntry {
	ents, err := os.ReadDir(dir)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			g.log.Error("cannot read directory", logx.String("path", dir), logx.Err(err))
		}
		return nil
	}
	return ents
}

func ignoredName(name string) bool {
	if strings.HasPrefix(name, ".") || strings.HasSuffix(name, "~") {
		return true
	}
	for _, s := range packageLeftovers {
		if strings.Contains(name, s) {
			return true
		}
	}
	return false
}

// masked logs and counts drop-ins replaced by a native timer.
func (g *Generator) masked(path, name string) bool {
	native := g.mask.Native(name)
	if native == "" {
		return false
	}
	g.res.Masked++
	g.log.Info("ignoring because native timer is present",
		logx.String("path", path),
		logx.String("timer", native),
	)
	return true
}

// walkDropIns translates every cron.d fragment; lines carry a user column.
func (g *Generator) walkDropIns(dir string) error {
	for _, ent := range g.readDir(dir) {
		name := ent.Name()
		path := filepath.Join(dir, name)
		if ignoredName(name) {
			g.log.Info("ignoring", logx.String("path", path))
			continue
		}
		if ent.IsDir() || g.masked(path, name) {
			continue
		}
		if err := g.parseFile(crontab.Source{Path: path, Name: name}); err != nil {
			return err
		}
	}
	return nil
}

// walkParts turns each executable of a run-parts directory into a
// persistent root job running at the directory's period.
func (g *Generator) walkParts(period, dir string) error {
	p, ok := schedule.LookupPeriod(period)
	if !ok {
		return nil
	}
	names := identity.NewAssigner()
	for _, ent := range g.readDir(dir) {
		name := ent.Name()
		path := filepath.Join(dir, name)
		if name == anacronHook || !runPartsName.MatchString(name) {
			continue
		}
		info, err := os.Stat(path)
		if err != nil || !info.Mode().IsRegular() || info.Mode().Perm()&0o111 == 0 {
			continue
		}
		if g.masked(path, name) {
			continue
		}

		e := &crontab.Entry{
			Source:     crontab.Source{Path: path, Name: period + "-" + name, User: "root"},
			Line:       path,
			User:       "root",
			Command:    path,
			Period:     &p,
			Calendar:   p.Calendar(0),
			Persistent: true,
			Shell:      g.cfg.Units.Shell,
		}
		if err := g.emit(names.Assign(e), e); err != nil {
			return err
		}
	}
	return nil
}

// walkSpool translates per-user crontabs, or defers to a rerun unit when
// the spool is not mounted yet.
func (g *Generator) walkSpool(dir string) error {
	if !exists(dir) {
		g.res.Deferred = true
		g.log.Info("spool not available, scheduling a rerun", logx.String("path", dir))
		return g.emitter.EmitRerun(dir)
	}

	for _, ent := range g.readDir(dir) {
		name := ent.Name()
		if strings.HasPrefix(name, ".") || ent.IsDir() {
			continue
		}
		src := crontab.Source{
			Path:  filepath.Join(dir, name),
			Name:  name,
			User:  name,
			Spool: true,
		}
		if err := g.parseFile(src); err != nil {
			return err
		}
	}

	marker := g.cfg.Sources.RebootMarker
	f, err := os.OpenFile(marker, os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		g.log.Warn("cannot create reboot marker", logx.String("path", marker), logx.Err(err))
		return nil
	}
	_ = f.Close()
	return nil
}
