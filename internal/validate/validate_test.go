package validate

import (
	"context"
	"testing"

	"github.com/apexls/core/internal/graph"
	"github.com/apexls/core/internal/symbol"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func rng(startLine, endLine int) symbol.Range {
	return symbol.Range{Start: symbol.Position{Line: startLine, Column: 0}, End: symbol.Position{Line: endLine, Column: 0}}
}

func loc(startLine, endLine int) symbol.Location {
	r := rng(startLine, endLine)
	return symbol.Location{SymbolRange: r, IdentifierRange: r}
}

// TestConstructorNaming_MismatchFlagged is spec.md §8 scenario 1: a class
// Account with a constructor named Acount.
func TestConstructorNaming_MismatchFlagged(t *testing.T) {
	f := symbol.NewFactory()
	table := symbol.NewTable("file:///A.cls")
	cls := f.Minimal(symbol.KindClass, "Account", loc(1, 10), table.FileURI, nil, []string{"File"})
	require.NoError(t, table.Add(cls))
	ctor := f.Full(symbol.KindConstructor, "Acount", loc(2, 4), table.FileURI, &cls.ID, []string{"File", "Account"}, symbol.FullParams{
		IsConstructor: true,
		HasBody:       true,
	})
	require.NoError(t, table.Add(ctor))

	result := ConstructorNamingValidator{}.Validate(context.Background(), table, ValidationOptions{Tier: TierImmediate})
	require.False(t, result.IsValid)
	require.Len(t, result.Errors, 1)
	assert.Equal(t, "CONSTRUCTOR_NAME_MISMATCH", result.Errors[0].Code)
}

func TestConstructorNaming_MatchingNameIsValid(t *testing.T) {
	f := symbol.NewFactory()
	table := symbol.NewTable("file:///A.cls")
	cls := f.Minimal(symbol.KindClass, "Account", loc(1, 10), table.FileURI, nil, []string{"File"})
	require.NoError(t, table.Add(cls))
	ctor := f.Full(symbol.KindConstructor, "Account", loc(2, 4), table.FileURI, &cls.ID, []string{"File", "Account"}, symbol.FullParams{
		IsConstructor: true,
		HasBody:       true,
	})
	require.NoError(t, table.Add(ctor))

	result := ConstructorNamingValidator{}.Validate(context.Background(), table, ValidationOptions{Tier: TierImmediate})
	assert.True(t, result.IsValid)
	assert.Empty(t, result.Errors)
}

// buildAPIFile is spec.md §8 scenario 2's file A:
// class Api { public Integer add(Integer a, Integer b) { return 0; } }
func buildAPIFile() *symbol.Table {
	f := symbol.NewFactory()
	table := symbol.NewTable("file:///Api.cls")
	cls := f.Minimal(symbol.KindClass, "Api", loc(1, 5), table.FileURI, nil, []string{"File"})
	table.Add(cls)
	table.Root = cls
	intType := symbol.TypeInfo{Name: "Integer", IsPrimitive: true, IsBuiltIn: true}
	method := f.Full(symbol.KindMethod, "add", loc(1, 1), table.FileURI, &cls.ID, []string{"File", "Api"}, symbol.FullParams{
		HasBody:    true,
		ReturnType: &intType,
		Parameters: []symbol.Parameter{
			{Name: "a", Type: intType},
			{Name: "b", Type: intType},
		},
	})
	table.Add(method)
	return table
}

// buildCallerFile is scenario 2's file B:
// class Caller { void run() { new Api().add("x", "y"); } }
func buildCallerFile() *symbol.Table {
	table := symbol.NewTable("file:///Caller.cls")
	f := symbol.NewFactory()
	cls := f.Minimal(symbol.KindClass, "Caller", loc(1, 5), table.FileURI, nil, []string{"File"})
	table.Add(cls)
	table.Root = cls
	run := f.Full(symbol.KindMethod, "run", loc(1, 1), table.FileURI, &cls.ID, []string{"File", "Caller"}, symbol.FullParams{HasBody: true})
	table.Add(run)

	qualifier := "Api"
	methodCtx := "run"
	table.AddReference(symbol.TypeReference{
		Name:                    "add",
		Context:                 symbol.RefMethodCall,
		Location:                loc(3, 3),
		Qualifier:               &qualifier,
		ParentContextMethodName: &methodCtx,
		ArgumentTypes:           []string{"String", "String"},
	})
	return table
}

func TestMethodResolution_CrossFileParameterTypeMismatch(t *testing.T) {
	g := graph.New()
	require.NoError(t, g.AddSymbolsFromTable(buildAPIFile()))

	caller := buildCallerFile()
	require.NoError(t, g.AddSymbolsFromTable(caller))

	v := MethodResolutionValidator{Graph: g}
	result := v.Validate(context.Background(), caller, ValidationOptions{Tier: TierThorough, Graph: g})
	require.False(t, result.IsValid)
	require.Len(t, result.Errors, 1)
	assert.Equal(t, "METHOD_DOES_NOT_SUPPORT_PARAMETER_TYPE", result.Errors[0].Code)
	assert.Equal(t, 3, result.Errors[0].Location.IdentifierRange.Start.Line)
}

func TestMethodResolution_CompatibleArgumentsIsValid(t *testing.T) {
	g := graph.New()
	require.NoError(t, g.AddSymbolsFromTable(buildAPIFile()))

	caller := buildCallerFile()
	caller.References[0].ArgumentTypes = []string{"Integer", "Integer"}
	require.NoError(t, g.AddSymbolsFromTable(caller))

	v := MethodResolutionValidator{Graph: g}
	result := v.Validate(context.Background(), caller, ValidationOptions{Tier: TierThorough, Graph: g})
	assert.True(t, result.IsValid)
}

func TestMethodResolution_UnknownMethodNameIsIgnoredNotFlagged(t *testing.T) {
	g := graph.New()
	require.NoError(t, g.AddSymbolsFromTable(buildAPIFile()))

	caller := buildCallerFile()
	caller.References[0].Name = "subtract"
	require.NoError(t, g.AddSymbolsFromTable(caller))

	v := MethodResolutionValidator{Graph: g}
	result := v.Validate(context.Background(), caller, ValidationOptions{Tier: TierThorough, Graph: g})
	assert.True(t, result.IsValid)
}

// --- registry / dedup / engine ---

func TestValidatorRegistry_ForTier_OrdersByPriority(t *testing.T) {
	reg := DefaultRegistry(graph.New())
	immediate := reg.ForTier(TierImmediate)
	require.Len(t, immediate, 2)
	assert.Equal(t, "constructor-naming", immediate[0].ID())
	assert.Equal(t, "modifier-semantics", immediate[1].ID())

	thorough := reg.ForTier(TierThorough)
	require.Len(t, thorough, 1)
	assert.Equal(t, "method-resolution", thorough[0].ID())
}

func TestDedup_IsIdempotentAndCollapsesDuplicates(t *testing.T) {
	l := loc(1, 1)
	entries := []ValidationError{
		{Code: "X", Message: "m", Location: &l},
		{Code: "X", Message: "m", Location: &l},
		{Code: "Y", Message: "m", Location: &l},
	}
	once := dedup(entries)
	assert.Len(t, once, 2)
	twice := dedup(once)
	assert.Equal(t, once, twice)
}

type panicValidator struct{}

func (panicValidator) ID() string    { return "panic-validator" }
func (panicValidator) Name() string  { return "Panic" }
func (panicValidator) Tier() Tier    { return TierImmediate }
func (panicValidator) Priority() int { return 99 }
func (panicValidator) Validate(context.Context, *symbol.Table, ValidationOptions) ValidationResult {
	panic("boom")
}

func TestEngine_PanicInOneValidatorIsIsolated(t *testing.T) {
	reg := NewValidatorRegistry(ConstructorNamingValidator{}, panicValidator{})
	engine := NewEngine(reg)

	f := symbol.NewFactory()
	table := symbol.NewTable("file:///A.cls")
	cls := f.Minimal(symbol.KindClass, "Account", loc(1, 10), table.FileURI, nil, []string{"File"})
	table.Add(cls)

	result := engine.Run(context.Background(), table, ValidationOptions{Tier: TierImmediate})
	require.False(t, result.IsValid)
	require.Len(t, result.Errors, 1)
	assert.Equal(t, "INTERNAL_VALIDATOR_PANIC", result.Errors[0].Code)
}

func TestEngine_DedupsAcrossValidators(t *testing.T) {
	l := loc(1, 1)
	dupA := constFakeValidator{id: "a", errs: []ValidationError{{Code: "X", Message: "m", Location: &l}}}
	dupB := constFakeValidator{id: "b", errs: []ValidationError{{Code: "X", Message: "m", Location: &l}}}
	engine := NewEngine(NewValidatorRegistry(dupA, dupB))

	table := symbol.NewTable("file:///A.cls")
	result := engine.Run(context.Background(), table, ValidationOptions{Tier: TierImmediate})
	assert.Len(t, result.Errors, 1)
}

type constFakeValidator struct {
	id   string
	errs []ValidationError
}

func (v constFakeValidator) ID() string    { return v.id }
func (v constFakeValidator) Name() string  { return v.id }
func (constFakeValidator) Tier() Tier      { return TierImmediate }
func (constFakeValidator) Priority() int   { return 1 }
func (v constFakeValidator) Validate(context.Context, *symbol.Table, ValidationOptions) ValidationResult {
	return ValidationResult{IsValid: len(v.errs) == 0, Errors: v.errs}
}
