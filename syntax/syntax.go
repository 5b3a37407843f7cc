// Package syntax declares the read-only contract the semantic core expects
// from an external parser. The core never constructs these nodes; it only
// walks them. No lexer, preprocessor, or parser lives in this module —
// that machinery is assumed to live upstream of this package's boundary.
//
// A syntax node carries a kind tag, a source range, and child accessors;
// concrete branch/leaf node types are left to whatever parser implements
// this interface, rather than fixed here as structs.
package syntax

import "github.com/hdlfront/svcore/diag"

// Kind is the closed set of syntax node kinds the binder and elaborator
// switch over. A real parser may produce additional kinds the core simply
// does not recognize (and therefore does not walk into).
type Kind int

const (
	KindUnknown Kind = iota

	KindDataDeclaration
	KindParameterDeclaration
	KindModuleDeclaration
	KindInterfaceDeclaration
	KindProgramDeclaration
	KindPackageDeclaration
	KindFunctionDeclaration
	KindTaskDeclaration
	KindClassDeclaration
	KindTypedefDeclaration
	KindGenerateBlock
	KindInstance

	KindForLoopStatement
	KindConditionalStatement
	KindSequentialBlockStatement
	KindReturnStatement
	KindExpressionStatement
	KindDisableStatement
	KindBreakStatement
	KindContinueStatement

	KindInvocationExpression
	KindMemberAccessExpression
	KindIdentifierName
	KindScopedName
	KindBinaryExpression
	KindUnaryExpression
	KindConditionalExpression
	KindMinTypMaxExpression
	KindLiteralExpression
	KindElementSelectExpression
	KindRangeSelectExpression
	KindAssignmentExpression
	KindWithClauseExpression

	KindOrderedArgument
	KindNamedArgument
	KindEmptyArgument
	KindArrayOrRandomizeMethodExpression
)

// TokenKind is the closed set of raw token kinds the binder inspects
// directly (e.g. to classify a formal argument's direction keyword).
type TokenKind int

const (
	TokenUnknown TokenKind = iota
	TokenInputKeyword
	TokenOutputKeyword
	TokenInOutKeyword
	TokenRefKeyword
	TokenLocalParamKeyword
	TokenIdentifier
	TokenIntegerLiteral
	TokenRealLiteral
	TokenStringLiteral

	// Operator tokens. A KindBinaryExpression node's middle child (index 1)
	// and a KindUnaryExpression node's first child (index 0) are expected to
	// be one of these.
	TokenPlus
	TokenMinus
	TokenStar
	TokenSlash
	TokenPercent
	TokenAmp
	TokenPipe
	TokenCaret
	TokenShl
	TokenShr
	TokenAShr
	TokenEq
	TokenNeq
	TokenCaseEq
	TokenCaseNeq
	TokenLt
	TokenGt
	TokenLte
	TokenGte
	TokenAndAnd
	TokenOrOr
	TokenTilde
	TokenBang
	TokenAmpReduce
	TokenPipeReduce
	TokenCaretReduce
)

// Token exposes raw lexeme text, a source span, and its kind.
type Token interface {
	ValueText() string
	Span() diag.Span
	TokenKind() TokenKind
}

// Node is the read-only contract every syntax tree node satisfies. Syntax
// nodes are expected to outlive the Compilation that binds them.
type Node interface {
	Kind() Kind
	Span() diag.Span

	// ChildCount and Child give positional access to child nodes; binder
	// and elaborator code indexes into these per Kind-specific layout
	// conventions documented next to each walker.
	ChildCount() int
	Child(i int) Node

	// AsToken returns the node as a Token if it is a leaf, and ok=false
	// otherwise.
	AsToken() (Token, bool)
}

// NamedNode is implemented by declaration-shaped nodes that carry an
// identifier name directly accessible without indexing into children.
type NamedNode interface {
	Node
	Name() string
}
