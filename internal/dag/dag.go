package dag

import (
	"sort"
	"strings"

	"github.com/google/uuid"

	"github.com/fabrique-build/fabrique/internal/source"
	"github.com/fabrique-build/fabrique/internal/types"
)

// DAG is the final, immutable reduction result: named
// variables, named targets, and every File/Rule/Build transitively
// reachable from them, ready for a backend to consume.
type DAG struct {
	Variables map[string]Value
	Targets   map[string]Value
	Rules     []*Rule
	Files     []*File
	Builds    []*Build
}

// Builder accumulates DAG state as the evaluator runs, then freezes it
// into a DAG. Files, Rules, and Builds register themselves as the
// evaluator produces them; variables and targets are recorded explicitly
// by the evaluator so it controls exactly when a value becomes
// DAG-visible.
type Builder struct {
	ctx *types.TypeContext

	variables map[string]Value
	targets   map[string]Value
	rules     []*Rule
	files     []*File
	builds    []*Build

	seenFiles map[string]bool
}

// NewBuilder constructs an empty Builder over the given type context.
func NewBuilder(ctx *types.TypeContext) *Builder {
	return &Builder{
		ctx:       ctx,
		variables: map[string]Value{},
		targets:   map[string]Value{},
		seenFiles: map[string]bool{},
	}
}

// Define records a named top-level binding. A value is a target iff it is
// a file or list-of-files; everything else becomes a variable.
func (b *Builder) Define(name string, v Value) {
	if isFileLike(v) {
		b.targets[name] = v
	} else {
		b.variables[name] = v
	}
	b.collect(v)
}

func isFileLike(v Value) bool {
	switch v.(type) {
	case *File:
		return true
	case *List:
		return v.Type().IsOrdered() && v.Type().Param(0).IsFile()
	default:
		return false
	}
}

// collect walks a freshly-produced value and registers any Files,
// Rules, or Builds it transitively references, so the final DAG
// enumerates every such object reachable from a top-level binding.
func (b *Builder) collect(v Value) {
	switch val := v.(type) {
	case *File:
		b.addFile(val)
	case *Rule:
		b.addRule(val)
	case *Build:
		b.addBuild(val)
		for _, in := range val.Inputs {
			b.collect(in)
		}
		for _, out := range val.Outputs {
			b.collect(out)
		}
		b.collect(val.Rule)
	case *List:
		for _, e := range val.Elements {
			b.collect(e)
		}
	case *Record:
		for _, f := range val.Fields {
			b.collect(f)
		}
	}
}

func (b *Builder) addFile(f *File) {
	key := f.FullName()
	if b.seenFiles[key] {
		return
	}
	b.seenFiles[key] = true
	b.files = append(b.files, f)
}

func (b *Builder) addRule(r *Rule) {
	for _, existing := range b.rules {
		if existing == r {
			return
		}
	}
	b.rules = append(b.rules, r)
}

func (b *Builder) addBuild(build *Build) {
	if build.BuildID == "" {
		build.BuildID = uuid.NewString()
	}
	for _, existing := range b.builds {
		if existing == build {
			return
		}
	}
	b.builds = append(b.builds, build)
}

// buildSortKey derives a stable ordering key for a Build from its content
// (rule name plus every input/output file name, sorted) rather than its
// BuildID, which is a random UUID and so differs across separate runs of
// the same source — sorting by it would make DAG.Builds' order
// non-deterministic, violating the promise that evaluating the same input
// twice yields structurally equal DAGs.
func buildSortKey(build *Build) string {
	var parts []string
	parts = append(parts, fileNames(build.Inputs)...)
	parts = append(parts, fileNames(build.Outputs)...)
	sort.Strings(parts)
	return build.Rule.Name + "\x00" + strings.Join(parts, "\x00")
}

// fileNames collects every File's FullName transitively reachable from a
// param-name-to-Value map (a Build's Inputs or Outputs), so a build's sort
// key reflects the files it actually touches regardless of whether a
// given parameter holds a single File or a List of them.
func fileNames(params map[string]Value) []string {
	var names []string
	for _, v := range params {
		names = append(names, collectFileNames(v)...)
	}
	return names
}

func collectFileNames(v Value) []string {
	switch val := v.(type) {
	case *File:
		return []string{val.FullName()}
	case *List:
		var names []string
		for _, e := range val.Elements {
			names = append(names, collectFileNames(e)...)
		}
		return names
	default:
		return nil
	}
}

// Freeze produces the final DAG. topLevelTargets restricts Targets to the
// named subset the caller asked to build; an empty slice keeps every
// target discovered by Define.
func (b *Builder) Freeze(topLevelTargets []string) *DAG {
	targets := b.targets
	if len(topLevelTargets) > 0 {
		targets = make(map[string]Value, len(topLevelTargets))
		for _, name := range topLevelTargets {
			if v, ok := b.targets[name]; ok {
				targets[name] = v
			}
		}
	}

	sort.Slice(b.files, func(i, j int) bool { return b.files[i].FullName() < b.files[j].FullName() })
	sort.Slice(b.rules, func(i, j int) bool { return b.rules[i].Name < b.rules[j].Name })
	sort.Slice(b.builds, func(i, j int) bool { return buildSortKey(b.builds[i]) < buildSortKey(b.builds[j]) })

	for _, f := range b.files {
		f.FreezeAttributes()
		f.MarkEmitted()
	}

	return &DAG{
		Variables: b.variables,
		Targets:   targets,
		Rules:     b.rules,
		Files:     b.files,
		Builds:    b.builds,
	}
}

// TypeContext returns the context this Builder interns types through.
func (b *Builder) TypeContext() *types.TypeContext { return b.ctx }

// Bool, Integer and String are convenience constructors: each simply
// forwards to the corresponding New* constructor with the Builder's type
// context, so evaluator code never has to thread ctx through by hand.
func (b *Builder) Bool(val bool, r source.Range) *Boolean     { return NewBoolean(b.ctx, val, r) }
func (b *Builder) Integer(val int, r source.Range) *Integer    { return NewInteger(b.ctx, val, r) }
func (b *Builder) String(val string, r source.Range) *String   { return NewString(b.ctx, val, r) }
