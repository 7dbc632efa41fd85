package generator

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"systemdcron/internal/config"
	"systemdcron/internal/crontab"
	"systemdcron/internal/identity"
	"systemdcron/internal/mask"
	"systemdcron/internal/unitfile"
	logx "systemdcron/pkg/logx"
)

var ErrDestinationMissing = errors.New("destination directory does not exist")

// maxLine bounds a single crontab line.
const maxLine = 1 << 20

// Result counts what one run produced.
type Result struct {
	Units   int
	Masked  int
	Skipped int
	// Deferred is set when the spool was missing and the rerun unit was written.
	Deferred bool
}

// Generator is built once per invocation.
type Generator struct {
	cfg     *config.Config
	dest    string
	log     logx.Logger
	mask    *mask.Mask
	emitter *unitfile.Emitter

	rebootDone bool
	res        Result
}

// New binds a generator to cfg and the output directory dest.
func New(cfg *config.Config, dest string, log logx.Logger) *Generator {
	if log.IsZero() {
		log = logx.Nop()
	}
	return &Generator{
		cfg:  cfg,
		dest: dest,
		log:  log,
		mask: mask.New(cfg.Units.Dirs, cfg.Mask),
		emitter: unitfile.New(unitfile.Options{
			Dest:      dest,
			Target:    cfg.Units.Target,
			BootDelay: cfg.Units.BootDelay,
			Systemctl: cfg.Units.Systemctl,
			Log:       log,
		}),
	}
}

// Run translates every source. The returned error is always fatal.
func (g *Generator) Run() (Result, error) {
	if st, err := os.Stat(g.dest); err != nil || !st.IsDir() {
		return g.res, fmt.Errorf("%s: %w", g.dest, ErrDestinationMissing)
	}
	start := time.Now()
	g.rebootDone = exists(g.cfg.Sources.RebootMarker)

	src := g.cfg.Sources
	if err := g.parseFile(crontab.Source{Path: src.Crontab, Name: filepath.Base(src.Crontab)}); err != nil {
		return g.res, err
	}
	if err := g.parseFile(crontab.Source{
		Path:    src.Anacrontab,
		Name:    filepath.Base(src.Anacrontab),
		User:    "root",
		Anacron: true,
	}); err != nil {
		return g.res, err
	}
	if err := g.walkDropIns(src.CronD); err != nil {
		return g.res, err
	}
	for _, period := range config.Periods {
		if err := g.walkParts(period, src.Parts[period]); err != nil {
			return g.res, err
		}
	}
	if err := g.walkSpool(src.Spool); err != nil {
		return g.res, err
	}

	g.log.Debug("generation finished",
		logx.Int("units", g.res.Units),
		logx.Int("masked", g.res.Masked),
		logx.Int("skipped", g.res.Skipped),
		logx.Bool("deferred", g.res.Deferred),
		logx.Duration("took", time.Since(start)),
	)
	return g.res, nil
}

// parseFile translates one crontab-format file. Only emission errors are returned.
func (g *Generator) parseFile(src crontab.Source) error {
	f, err := os.Open(src.Path)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			g.log.Error("cannot read", logx.String("path", src.Path), logx.Err(err))
		}
		return nil
	}
	defer f.Close()

	parser := crontab.NewParser(src, crontab.Options{
		Shell:      g.cfg.Units.Shell,
		RebootDone: g.rebootDone,
		Log:        g.log,
	})
	names := identity.NewAssigner()

	r := bufio.NewReader(f)
	lineNo := 0
	for {
		line, tooLong, err := readLine(r, maxLine)
		if err != nil && !errors.Is(err, io.EOF) {
			g.log.Error("cannot read", logx.String("path", src.Path), logx.Int("line", lineNo+1), logx.Err(err))
			return nil
		}
		if line == "" && !tooLong && err != nil {
			return nil
		}
		lineNo++
		if tooLong {
			g.res.Skipped++
			g.log.Warn("skipping line",
				logx.String("path", src.Path),
				logx.Int("line", lineNo),
				logx.Err(fmt.Errorf("%w: longer than %d bytes", crontab.ErrGarbled, maxLine)),
			)
		} else if perr := g.parseLine(parser, names, src, lineNo, line); perr != nil {
			return perr
		}
		if err != nil {
			return nil
		}
	}
}

// parseLine translates one line. Only emission errors are returned.
func (g *Generator) parseLine(parser *crontab.Parser, names *identity.Assigner, src crontab.Source, lineNo int, line string) error {
	e, err := parser.ParseLine(line)
	if err != nil {
		g.res.Skipped++
		g.log.Warn("skipping line",
			logx.String("path", src.Path),
			logx.Int("line", lineNo),
			logx.Err(err),
		)
		return nil
	}
	if e == nil {
		return nil
	}
	return g.emit(names.Assign(e), e)
}

// readLine returns the next line without its terminator. Lines longer than
// maxN are consumed and reported as tooLong with an empty result, so
// reading continues on the following line. err is io.EOF on the last line.
func readLine(r *bufio.Reader, maxN int) (line string, tooLong bool, err error) {
	var buf []byte
	for {
		chunk, rerr := r.ReadSlice('\n')
		if !tooLong {
			if len(buf)+len(chunk) > maxN+1 {
				tooLong = true
				buf = nil
			} else {
				buf = append(buf, chunk...)
			}
		}
		if errors.Is(rerr, bufio.ErrBufferFull) {
			continue
		}
		return strings.TrimRight(string(buf), "\r\n"), tooLong, rerr
	}
}

func (g *Generator) emit(name string, e *crontab.Entry) error {
	if err := g.emitter.Emit(name, e); err != nil {
		return err
	}
	g.res.Units++
	g.log.Debug("generated", logx.String("unit", name), logx.String("calendar", e.Calendar))
	return nil
}

func exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
