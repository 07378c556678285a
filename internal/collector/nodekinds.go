package collector

// Node-kind vocabulary the collector expects from the external parser's
// parsetree.Node tree, modeled on the conventional shape of an
// ANTLR/tree-sitter grammar for a Java-family, class-based language
// (declarations wrap a "modifiers" node, binary/unary expressions are
// generic "*_expression" nodes, etc.) — the same family of grammar
// standardbeagle-lci's own tree-sitter-java/csharp bindings expose. Grammar
// production itself is out of scope (spec.md §1); this file is the
// collector's half of that contract.
const (
	kindClassDecl       = "class_declaration"
	kindInterfaceDecl   = "interface_declaration"
	kindEnumDecl        = "enum_declaration"
	kindTriggerDecl     = "trigger_declaration"
	kindMethodDecl      = "method_declaration"
	kindConstructorDecl = "constructor_declaration"
	kindFieldDecl       = "field_declaration"
	kindPropertyDecl    = "property_declaration"
	kindLocalVarDecl    = "local_variable_declaration"
	kindVariableDtor    = "variable_declarator"
	kindFormalParam     = "formal_parameter"
	kindFormalParams    = "formal_parameters"
	kindEnumConstant    = "enum_constant"
	kindBlock           = "block"

	kindModifiers  = "modifiers"
	kindAnnotation = "annotation"
	kindAnnotArgs  = "annotation_argument_list"
	kindAnnotArg   = "annotation_argument"

	kindIdentifier  = "identifier"
	kindTypeIdent   = "type_identifier"
	kindSuperclass  = "superclass"
	kindInterfaces  = "super_interfaces"
	kindTypeList    = "type_list"
	kindReturnType  = "type"
	kindArgumentList = "argument_list"

	kindMethodInvocation = "method_invocation"
	kindFieldAccess      = "field_access"
	kindObjectCreation   = "object_creation_expression"
	kindAssignment       = "assignment_expression"
	kindCastExpr         = "cast_expression"
	kindInstanceofExpr   = "instanceof_expression"
	kindBinaryExpr       = "binary_expression"
	kindTernaryExpr      = "ternary_expression"
	kindCoalesceExpr     = "coalesce_expression"
	kindUnaryExpr        = "unary_expression"
	kindParenExpr        = "parenthesized_expression"
	kindForStatement     = "for_statement"
	kindEnhancedFor      = "enhanced_for_statement"
	kindExprStatement    = "expression_statement"
	kindLocalVarStmt     = "local_variable_declaration_statement"

	kindStringLiteral  = "string_literal"
	kindIntLiteral     = "int_literal"
	kindBooleanLiteral = "boolean_literal"

	modStatic     = "static"
	modFinal      = "final"
	modAbstract   = "abstract"
	modVirtual    = "virtual"
	modOverride   = "override"
	modTransient  = "transient"
	modTestMethod = "testmethod"
	modWebService = "webservice"
	modPublic     = "public"
	modPrivate    = "private"
	modProtected  = "protected"
	modGlobal     = "global"
)
