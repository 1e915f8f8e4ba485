// Package types implements Fabrique's structural type lattice: a
// TypeContext interns every Type that is constructed during a run, so that
// two types built from the same (name, parameters) are the same object —
// pointer identity implies type equality everywhere else in the compiler.
package types

import (
	"fmt"
	"sort"
	"strings"
)

// Kind distinguishes the type variants the evaluator and DAG builder need
// to dispatch on. It is never exposed outside this package; callers use the
// capability predicates (IsFile, HasFields, ...) instead of switching on it.
type Kind int

const (
	KindNil Kind = iota
	KindBoolean
	KindInteger
	KindString
	KindFile
	KindList
	KindMaybe
	KindRecord
	KindFunction
	KindType
)

// FileTag distinguishes file[in], file[out] and the untagged "any file"
// type used as the declared type of parameters like `files()`'s elements.
type FileTag int

const (
	TagNone FileTag = iota
	TagIn
	TagOut
)

func (t FileTag) String() string {
	switch t {
	case TagIn:
		return "in"
	case TagOut:
		return "out"
	default:
		return ""
	}
}

// Field is one member of a record type: a name and its declared type.
type Field struct {
	Name string
	Type *Type
}

// Type is an interned, immutable node in Fabrique's type lattice. Every
// Type is owned by exactly one TypeContext; do not construct a Type value
// directly, go through the context's ListOf/MaybeOf/RecordType/
// FunctionType methods so that identical types collapse to one instance.
type Type struct {
	ctx    *TypeContext
	kind   Kind
	name   string
	params []*Type

	fileTag FileTag
	fields  []Field // KindRecord only, sorted by Name
	funcRes *Type   // KindFunction only
}

// Context returns the TypeContext that owns and interned t.
func (t *Type) Context() *TypeContext { return t.ctx }

// Name is the type's base name (e.g. "list", "int", "record").
func (t *Type) Name() string { return t.name }

// TypeParameters returns t's ordered type arguments (empty for
// non-parametric types).
func (t *Type) TypeParameters() []*Type { return t.params }

// Param returns the i'th type parameter; it panics if i is out of range.
func (t *Type) Param(i int) *Type { return t.params[i] }

// Fields returns a record type's fields in canonical (name-sorted) order.
// It is nil for non-record types.
func (t *Type) Fields() []Field { return t.fields }

// FunctionParams returns a function type's parameter types.
func (t *Type) FunctionParams() []*Type {
	if t.kind != KindFunction {
		return nil
	}
	return t.params
}

// FunctionResult returns a function type's declared result type.
func (t *Type) FunctionResult() *Type { return t.funcRes }

// FileTag reports which of in/out/untagged this file type carries.
func (t *Type) FileTag() FileTag { return t.fileTag }

// String renders the canonical, parseable form of the type, e.g.
// "list[file[in]]" or "record[a:int, b:string]".
func (t *Type) String() string {
	var b strings.Builder

	switch t.kind {
	case KindFile:
		b.WriteString("file")
		if t.fileTag != TagNone {
			fmt.Fprintf(&b, "[%s]", t.fileTag)
		}
		return b.String()

	case KindRecord:
		b.WriteString("record[")
		for i, f := range t.fields {
			if i > 0 {
				b.WriteString(", ")
			}
			fmt.Fprintf(&b, "%s:%s", f.Name, f.Type)
		}
		b.WriteString("]")
		return b.String()

	case KindFunction:
		b.WriteString("function(")
		for i, p := range t.params {
			if i > 0 {
				b.WriteString(", ")
			}
			b.WriteString(p.String())
		}
		fmt.Fprintf(&b, ")->%s", t.funcRes)
		return b.String()
	}

	b.WriteString(t.name)
	if len(t.params) > 0 {
		b.WriteString("[")
		for i, p := range t.params {
			if i > 0 {
				b.WriteString(", ")
			}
			b.WriteString(p.String())
		}
		b.WriteString("]")
	}
	return b.String()
}

// --- capability predicates (each is false for every kind it does not name) ---

func (t *Type) IsOrdered() bool  { return t.kind == KindList }
func (t *Type) IsOptional() bool { return t.kind == KindMaybe }
func (t *Type) HasFields() bool  { return t.kind == KindRecord }
func (t *Type) IsFile() bool     { return t.kind == KindFile }
func (t *Type) HasFiles() bool {
	switch t.kind {
	case KindFile:
		return true
	case KindList:
		return t.params[0].HasFiles()
	case KindMaybe:
		return t.params[0].HasFiles()
	}
	return false
}
func (t *Type) HasOutput() bool {
	if t.kind == KindFile {
		return t.fileTag == TagOut
	}
	if t.kind == KindList {
		return t.params[0].HasOutput()
	}
	return false
}
func (t *Type) IsFunction() bool { return t.kind == KindFunction }
func (t *Type) IsString() bool   { return t.kind == KindString }
func (t *Type) IsNil() bool      { return t.kind == KindNil }
func (t *Type) IsType() bool     { return t.kind == KindType }

// field looks up a record field's type by name.
func (t *Type) field(name string) (*Type, bool) {
	for _, f := range t.fields {
		if f.Name == name {
			return f.Type, true
		}
	}
	return nil, false
}

// IsSubtype reports whether t <= other in the lattice:
// reflexive, covariant for list/maybe, width-and-depth covariant for
// records, a tagged file[in]/file[out] below the untagged file, identity
// otherwise.
func (t *Type) IsSubtype(other *Type) bool {
	if t == other {
		return true
	}

	switch {
	case t.kind == KindList && other.kind == KindList:
		return t.params[0].IsSubtype(other.params[0])

	case t.kind == KindMaybe && other.kind == KindMaybe:
		return t.params[0].IsSubtype(other.params[0])

	case t.kind == KindRecord && other.kind == KindRecord:
		for _, of := range other.fields {
			sf, ok := t.field(of.Name)
			if !ok || !sf.IsSubtype(of.Type) {
				return false
			}
		}
		return true

	case t.kind == KindFile && other.kind == KindFile:
		if other.fileTag == TagNone {
			return true
		}
		return t.fileTag == other.fileTag
	}

	return false
}

// IsSupertype is the mirror of IsSubtype.
func (t *Type) IsSupertype(other *Type) bool {
	return other.IsSubtype(t)
}

// Supertype returns the least upper bound of a and b, or the nil type if
// they are incomparable.
func (ctx *TypeContext) Supertype(a, b *Type) *Type {
	if a.IsSupertype(b) {
		return a
	}
	if b.IsSupertype(a) {
		return b
	}
	if widened, ok := ctx.widenParametric(a, b); ok {
		return widened
	}
	if a.kind == KindFile && b.kind == KindFile {
		return ctx.fileTy
	}
	return ctx.nilType
}

// widenParametric handles the case where a and b share a parametric kind
// (list/maybe) but neither is already a supertype of the other, because
// their element types merely share a common supertype rather than one
// subtyping the other directly (e.g. list[file[in]] vs list[file[out]]:
// neither file tag is a supertype of the other, but plain file is).
// Widens each parameter through Supertype, then rebuilds the type through
// Reparameterize so the widened result stays interned.
func (ctx *TypeContext) widenParametric(a, b *Type) (*Type, bool) {
	if a.kind != b.kind || len(a.params) == 0 || len(a.params) != len(b.params) {
		return nil, false
	}
	widenedParams := make([]*Type, len(a.params))
	for i := range a.params {
		widenedParams[i] = ctx.Supertype(a.params[i], b.params[i])
		if widenedParams[i].IsNil() && !(a.params[i].IsNil() && b.params[i].IsNil()) {
			return nil, false
		}
	}
	return ctx.Reparameterize(a, widenedParams), true
}

// SupertypeAll folds Supertype across ts, returning the nil type for an
// empty slice.
func (ctx *TypeContext) SupertypeAll(ts []*Type) *Type {
	if len(ts) == 0 {
		return ctx.nilType
	}
	result := ts[0]
	for _, t := range ts[1:] {
		result = ctx.Supertype(result, t)
	}
	return result
}

// --- operator-type rules ---

// OnAddTo returns the type of `t + other`, or nil if the operator is
// unsupported for this pairing.
func (t *Type) OnAddTo(other *Type) *Type {
	switch {
	case t.kind == KindString && other.kind == KindString:
		return t

	case t.kind == KindInteger && other.kind == KindInteger:
		return t

	case t.kind == KindFile && other.kind == KindString:
		return t

	case t.kind == KindList && other.kind == KindList:
		if sup := t.ctx.Supertype(t.params[0], other.params[0]); !sup.IsNil() {
			return t.ctx.ListOf(sup)
		}
		return nil

	case t.IsSubtype(other):
		return other
	case other.IsSubtype(t):
		return t
	}
	return nil
}

// OnSubtract returns the type of `t - other`, or nil.
func (t *Type) OnSubtract(other *Type) *Type {
	if t.kind == KindInteger && other.kind == KindInteger {
		return t
	}
	return nil
}

// OnMultiply returns the type of `t * other` or `t / other`, or nil.
func (t *Type) OnMultiply(other *Type) *Type {
	if t.kind == KindInteger && other.kind == KindInteger {
		return t
	}
	return nil
}

// OnPrefixWith returns the type of `t :: other` (t prefixed onto list
// `other`): list[Supertype(t, S)] when other is list[S], or nil when other
// is not a list or t and S have no common supertype.
func (t *Type) OnPrefixWith(other *Type) *Type {
	if other.kind != KindList {
		return nil
	}
	sup := t.ctx.Supertype(t, other.params[0])
	if sup.IsNil() {
		return nil
	}
	return t.ctx.ListOf(sup)
}

// --- interning ---

// TypeContext interns every Type constructed during a single run. It is
// append-only and used from exactly one goroutine: no locking.
type TypeContext struct {
	interned map[string]*Type

	nilType    *Type
	booleanTy  *Type
	integerTy  *Type
	stringTy   *Type
	typeTy     *Type
	fileTy     *Type
	inputFile  *Type
	outputFile *Type
}

// NewTypeContext constructs a context with the primitive types eagerly
// interned.
func NewTypeContext() *TypeContext {
	ctx := &TypeContext{interned: make(map[string]*Type)}

	ctx.nilType = ctx.intern(&Type{ctx: ctx, kind: KindNil, name: "nil"})
	ctx.booleanTy = ctx.intern(&Type{ctx: ctx, kind: KindBoolean, name: "bool"})
	ctx.integerTy = ctx.intern(&Type{ctx: ctx, kind: KindInteger, name: "int"})
	ctx.stringTy = ctx.intern(&Type{ctx: ctx, kind: KindString, name: "string"})
	ctx.typeTy = ctx.intern(&Type{ctx: ctx, kind: KindType, name: "type"})
	ctx.fileTy = ctx.intern(&Type{ctx: ctx, kind: KindFile, name: "file", fileTag: TagNone})
	ctx.inputFile = ctx.intern(&Type{ctx: ctx, kind: KindFile, name: "file", fileTag: TagIn})
	ctx.outputFile = ctx.intern(&Type{ctx: ctx, kind: KindFile, name: "file", fileTag: TagOut})

	return ctx
}

func (ctx *TypeContext) intern(t *Type) *Type {
	key := t.String()
	if existing, ok := ctx.interned[key]; ok {
		return existing
	}
	ctx.interned[key] = t
	return t
}

func (ctx *TypeContext) NilType() *Type     { return ctx.nilType }
func (ctx *TypeContext) BooleanType() *Type { return ctx.booleanTy }
func (ctx *TypeContext) IntegerType() *Type { return ctx.integerTy }
func (ctx *TypeContext) StringType() *Type  { return ctx.stringTy }
func (ctx *TypeContext) TypeType() *Type    { return ctx.typeTy }

func (ctx *TypeContext) FileType() *Type       { return ctx.fileTy }
func (ctx *TypeContext) InputFileType() *Type  { return ctx.inputFile }
func (ctx *TypeContext) OutputFileType() *Type { return ctx.outputFile }

// ListOf returns the interned list[elem] type.
func (ctx *TypeContext) ListOf(elem *Type) *Type {
	return ctx.intern(&Type{ctx: ctx, kind: KindList, name: "list", params: []*Type{elem}})
}

// MaybeOf returns the interned maybe[elem] type.
func (ctx *TypeContext) MaybeOf(elem *Type) *Type {
	return ctx.intern(&Type{ctx: ctx, kind: KindMaybe, name: "maybe", params: []*Type{elem}})
}

// RecordType returns the interned record type with the given fields. Field
// order does not affect identity: fields are canonicalized by name before
// interning, so record subtyping never depends on declaration order.
func (ctx *TypeContext) RecordType(fields []Field) *Type {
	sorted := append([]Field(nil), fields...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Name < sorted[j].Name })
	return ctx.intern(&Type{ctx: ctx, kind: KindRecord, name: "record", fields: sorted})
}

// FunctionType returns the interned function(params...)->result type.
func (ctx *TypeContext) FunctionType(params []*Type, result *Type) *Type {
	return ctx.intern(&Type{ctx: ctx, kind: KindFunction, name: "function", params: params, funcRes: result})
}

// Reparameterize rebuilds t with newParams substituted for its existing
// type parameters, going back through the owning context so the result is
// still interned. Every kind that actually carries type parameters
// (list/maybe/function) is handled explicitly; a kind with no parameters
// of its own (record, file, the primitives) has nothing to substitute, so
// t is returned unchanged.
func (ctx *TypeContext) Reparameterize(t *Type, newParams []*Type) *Type {
	switch t.kind {
	case KindList:
		return ctx.ListOf(newParams[0])
	case KindMaybe:
		return ctx.MaybeOf(newParams[0])
	case KindFunction:
		return ctx.FunctionType(newParams, t.funcRes)
	default:
		return t
	}
}
