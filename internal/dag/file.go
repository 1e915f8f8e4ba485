package dag

import (
	"path/filepath"

	"github.com/fabrique-build/fabrique/internal/errors"
	"github.com/fabrique-build/fabrique/internal/source"
	"github.com/fabrique-build/fabrique/internal/types"
)

// fileState tracks a File through its lifecycle: declared(source or
// generated) → attributes-frozen → referenced-by-build(s) → emitted.
type fileState int

const (
	fileDeclared fileState = iota
	fileAttributesFrozen
	fileReferenced
	fileEmitted
)

// File is a path in the build tree: a source file or a build product.
type File struct {
	ValueBase
	name        string
	subdir      string
	absolute    bool
	generated   bool
	state       fileState
}

// NewFile constructs a File. name is resolved relative to subdir unless it
// is an absolute path.
func NewFile(ctx *types.TypeContext, name, subdir string, generated bool, tag types.FileTag, r source.Range) *File {
	absolute := filepath.IsAbs(name)
	if absolute {
		subdir = ""
	}

	var ty *types.Type
	switch tag {
	case types.TagIn:
		ty = ctx.InputFileType()
	case types.TagOut:
		ty = ctx.OutputFileType()
	default:
		ty = ctx.FileType()
	}

	return &File{
		ValueBase: ValueBase{Range: r, Ty: ty},
		name:      name,
		subdir:    subdir,
		absolute:  absolute,
		generated: generated,
	}
}

func (f *File) Filename() string { return filepath.Base(f.name) }
func (f *File) Subdirectory() string { return f.subdir }
func (f *File) Generated() bool { return f.generated }
func (f *File) Absolute() bool { return f.absolute }

// FullName returns the path relative to the build root, joining the
// subdirectory in unless the file is absolute.
func (f *File) FullName() string {
	if f.absolute || f.subdir == "" {
		return f.name
	}
	return filepath.Join(f.subdir, f.name)
}

// Directory returns the containing directory of FullName().
func (f *File) Directory() string {
	return filepath.Dir(f.FullName())
}

// SetGenerated marks the file as a build product. Legal only before the
// file has been referenced by a Build; an absolute-path file
// can never be generated.
func (f *File) SetGenerated(generated bool) error {
	if f.state >= fileReferenced {
		return errors.Wrap(errors.Assert(f.Range,
			"cannot change generated flag after file %q has been referenced by a build", f.FullName()))
	}
	if f.absolute && generated {
		return errors.Wrap(errors.SemanticErrorf(errors.UnsupportedOp, f.Range,
			"absolute-path file %q cannot be marked generated", f.FullName()))
	}
	f.generated = generated
	return nil
}

// FreezeAttributes transitions declared → attributes-frozen: after this
// point SetGenerated still works until the file is referenced, but no new
// attribute mutation is introduced by the evaluator.
func (f *File) FreezeAttributes() {
	if f.state < fileAttributesFrozen {
		f.state = fileAttributesFrozen
	}
}

// MarkReferenced transitions the file into referenced-by-build state,
// after which SetGenerated is no longer legal.
func (f *File) MarkReferenced() {
	if f.state < fileReferenced {
		f.state = fileReferenced
	}
}

// MarkEmitted transitions the file to its terminal state.
func (f *File) MarkEmitted() {
	f.state = fileEmitted
}

func (f *File) HasFields() bool { return true }

func (f *File) Field(name string) Value {
	ctx := typeContextOf(f.Ty)
	switch name {
	case "name":
		return NewString(ctx, f.Filename(), f.Range)
	case "subdir":
		return NewString(ctx, f.subdir, f.Range)
	case "fullname":
		return NewString(ctx, f.FullName(), f.Range)
	case "generated":
		return NewBoolean(ctx, f.generated, f.Range)
	default:
		return nil
	}
}

// Add appends a suffix to the file's name, propagating the subdirectory
// and absolute-path flag.
func (f *File) Add(other Value, at source.Range) (Value, error) {
	suffix, ok := other.(*String)
	if !ok {
		return unsupportedPair(at, "+", f, other)
	}
	clone := *f
	clone.Range = at
	clone.name = f.name + suffix.Val
	clone.state = fileDeclared
	return &clone, nil
}

// PrefixWith prepends a prefix to the file's name.
func (f *File) PrefixWith(other Value, at source.Range) (Value, error) {
	prefix, ok := other.(*String)
	if !ok {
		return unsupportedPair(at, "::", f, other)
	}
	clone := *f
	clone.Range = at
	clone.name = prefix.Val + f.name
	clone.state = fileDeclared
	return &clone, nil
}

func (f *File) Equals(other Value, at source.Range) (Value, error) {
	o, ok := other.(*File)
	if !ok {
		return unsupportedPair(at, "==", f, other)
	}
	return NewBoolean(typeContextOf(f.Ty), f.FullName() == o.FullName(), at), nil
}
