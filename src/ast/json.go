package ast

import (
	"encoding/json"
	"fmt"
)

// This file implements the on-disk AST format: the wire contract between
// whatever external producer built the tree (spec.md's lexer/parser,
// explicitly out of the core's scope) and this package's in-memory Node
// types. The format is a JSON tagged union: every node object below the
// program root carries a "kind" discriminator naming its concrete Go type,
// plus that type's own fields under "data". The root object holds only
// its position and "funcs", and a function object's "kind" is not checked. Decoding goes through a Builder so every node still gets a
// fresh, compilation-unique id even when the source JSON supplies one —
// the core's own id is authoritative.

// kind string constants, one per concrete expression and statement type.
const (
	kindIntLit      = "IntLit"
	kindFloatLit    = "FloatLit"
	kindStringLit   = "StringLit"
	kindIdent       = "Ident"
	kindIndexExpr   = "IndexExpr"
	kindUnaryExpr   = "UnaryExpr"
	kindBinaryExpr  = "BinaryExpr"
	kindRelExpr     = "RelExpr"
	kindNotExpr     = "NotExpr"
	kindLogicalExpr = "LogicalExpr"
	kindCastExpr    = "CastExpr"
	kindCallExpr    = "CallExpr"

	kindVarDecl = "VarDecl"
	kindAssign  = "Assign"
	kindBlock   = "Block"
	kindIf      = "If"
	kindWhile   = "While"
	kindReturn  = "Return"
	kindPrint   = "Print"
	kindScan    = "Scan"
)

// wireNode is the on-disk shape of one node: position plus a free-form
// payload whose fields depend on Kind.
type wireNode struct {
	Kind string          `json:"kind"`
	Line int             `json:"line"`
	Col  int             `json:"col"`
	Data json.RawMessage `json:"data,omitempty"`
}

// DecodeProgram parses the JSON AST format into a *Program, minting fresh
// node ids via b as it goes.
func DecodeProgram(b *Builder, data []byte) (*Program, error) {
	var raw struct {
		Line  int               `json:"line"`
		Col   int               `json:"col"`
		Funcs []json.RawMessage `json:"funcs"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("decoding program: %w", err)
	}

	funcs := make([]*FuncDecl, 0, len(raw.Funcs))
	for _, fr := range raw.Funcs {
		fd, err := decodeFuncDecl(b, fr)
		if err != nil {
			return nil, err
		}
		funcs = append(funcs, fd)
	}
	return b.Program(raw.Line, raw.Col, funcs), nil
}

func decodeFuncDecl(b *Builder, data []byte) (*FuncDecl, error) {
	var w wireNode
	if err := json.Unmarshal(data, &w); err != nil {
		return nil, fmt.Errorf("decoding function declaration: %w", err)
	}
	var body struct {
		Name       string          `json:"name"`
		ReturnType string          `json:"returnType"`
		Params     []Param         `json:"params"`
		Body       json.RawMessage `json:"body"`
	}
	if err := json.Unmarshal(w.Data, &body); err != nil {
		return nil, fmt.Errorf("decoding function %q: %w", body.Name, err)
	}
	blk, err := decodeBlock(b, body.Body)
	if err != nil {
		return nil, fmt.Errorf("function %q: %w", body.Name, err)
	}
	return b.FuncDecl(w.Line, w.Col, body.Name, body.ReturnType, body.Params, blk), nil
}

func decodeBlock(b *Builder, data []byte) (*Block, error) {
	var w wireNode
	if err := json.Unmarshal(data, &w); err != nil {
		return nil, err
	}
	if w.Kind != kindBlock {
		return nil, fmt.Errorf("expected %s node, got %q", kindBlock, w.Kind)
	}
	var body struct {
		Stmts []json.RawMessage `json:"stmts"`
	}
	if err := json.Unmarshal(w.Data, &body); err != nil {
		return nil, err
	}
	stmts := make([]Stmt, 0, len(body.Stmts))
	for _, sr := range body.Stmts {
		s, err := decodeStmt(b, sr)
		if err != nil {
			return nil, err
		}
		stmts = append(stmts, s)
	}
	return b.Block(w.Line, w.Col, stmts), nil
}

func decodeStmt(b *Builder, data []byte) (Stmt, error) {
	var w wireNode
	if err := json.Unmarshal(data, &w); err != nil {
		return nil, err
	}
	switch w.Kind {
	case kindVarDecl:
		var d struct {
			Name     string          `json:"name"`
			TypeName string          `json:"typeName"`
			IsArray  bool            `json:"isArray"`
			Size     json.RawMessage `json:"size,omitempty"`
			Init     json.RawMessage `json:"init,omitempty"`
		}
		if err := json.Unmarshal(w.Data, &d); err != nil {
			return nil, err
		}
		size, err := decodeOptExpr(b, d.Size)
		if err != nil {
			return nil, err
		}
		init, err := decodeOptExpr(b, d.Init)
		if err != nil {
			return nil, err
		}
		return b.VarDecl(w.Line, w.Col, d.Name, d.TypeName, d.IsArray, size, init), nil

	case kindAssign:
		var d struct {
			Name  string          `json:"name"`
			Index json.RawMessage `json:"index,omitempty"`
			RHS   json.RawMessage `json:"rhs"`
		}
		if err := json.Unmarshal(w.Data, &d); err != nil {
			return nil, err
		}
		idx, err := decodeOptExpr(b, d.Index)
		if err != nil {
			return nil, err
		}
		rhs, err := decodeExpr(b, d.RHS)
		if err != nil {
			return nil, err
		}
		return b.Assign(w.Line, w.Col, d.Name, idx, rhs), nil

	case kindBlock:
		return decodeBlock(b, data)

	case kindIf:
		var d struct {
			Cond json.RawMessage `json:"cond"`
			Then json.RawMessage `json:"then"`
			Else json.RawMessage `json:"else,omitempty"`
		}
		if err := json.Unmarshal(w.Data, &d); err != nil {
			return nil, err
		}
		cond, err := decodeExpr(b, d.Cond)
		if err != nil {
			return nil, err
		}
		then, err := decodeBlock(b, d.Then)
		if err != nil {
			return nil, err
		}
		var els *Block
		if len(d.Else) > 0 {
			els, err = decodeBlock(b, d.Else)
			if err != nil {
				return nil, err
			}
		}
		return b.If(w.Line, w.Col, cond, then, els), nil

	case kindWhile:
		var d struct {
			Cond json.RawMessage `json:"cond"`
			Body json.RawMessage `json:"body"`
		}
		if err := json.Unmarshal(w.Data, &d); err != nil {
			return nil, err
		}
		cond, err := decodeExpr(b, d.Cond)
		if err != nil {
			return nil, err
		}
		body, err := decodeBlock(b, d.Body)
		if err != nil {
			return nil, err
		}
		return b.While(w.Line, w.Col, cond, body), nil

	case kindReturn:
		var d struct {
			Value json.RawMessage `json:"value"`
		}
		if err := json.Unmarshal(w.Data, &d); err != nil {
			return nil, err
		}
		v, err := decodeExpr(b, d.Value)
		if err != nil {
			return nil, err
		}
		return b.Return(w.Line, w.Col, v), nil

	case kindPrint:
		var d struct {
			Format json.RawMessage   `json:"format"`
			Args   []json.RawMessage `json:"args"`
		}
		if err := json.Unmarshal(w.Data, &d); err != nil {
			return nil, err
		}
		format, err := decodeStringLit(b, d.Format)
		if err != nil {
			return nil, err
		}
		args, err := decodeExprList(b, d.Args)
		if err != nil {
			return nil, err
		}
		return b.Print(w.Line, w.Col, format, args), nil

	case kindScan:
		var d struct {
			Format  json.RawMessage `json:"format"`
			Targets []struct {
				Name  string          `json:"name"`
				Index json.RawMessage `json:"index,omitempty"`
			} `json:"targets"`
		}
		if err := json.Unmarshal(w.Data, &d); err != nil {
			return nil, err
		}
		format, err := decodeStringLit(b, d.Format)
		if err != nil {
			return nil, err
		}
		targets := make([]ScanTarget, 0, len(d.Targets))
		for _, t := range d.Targets {
			idx, err := decodeOptExpr(b, t.Index)
			if err != nil {
				return nil, err
			}
			targets = append(targets, ScanTarget{Name: t.Name, Index: idx})
		}
		return b.Scan(w.Line, w.Col, format, targets), nil

	default:
		return nil, fmt.Errorf("unrecognized statement kind %q", w.Kind)
	}
}

func decodeOptExpr(b *Builder, data json.RawMessage) (Expr, error) {
	if len(data) == 0 {
		return nil, nil
	}
	return decodeExpr(b, data)
}

func decodeExprList(b *Builder, data []json.RawMessage) ([]Expr, error) {
	out := make([]Expr, 0, len(data))
	for _, d := range data {
		e, err := decodeExpr(b, d)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, nil
}

func decodeStringLit(b *Builder, data json.RawMessage) (*StringLit, error) {
	e, err := decodeExpr(b, data)
	if err != nil {
		return nil, err
	}
	sl, ok := e.(*StringLit)
	if !ok {
		return nil, fmt.Errorf("expected string literal, got %T", e)
	}
	return sl, nil
}

func decodeExpr(b *Builder, data json.RawMessage) (Expr, error) {
	var w wireNode
	if err := json.Unmarshal(data, &w); err != nil {
		return nil, err
	}
	switch w.Kind {
	case kindIntLit:
		var d struct {
			Value int64 `json:"value"`
		}
		if err := json.Unmarshal(w.Data, &d); err != nil {
			return nil, err
		}
		return b.IntLit(w.Line, w.Col, d.Value), nil

	case kindFloatLit:
		var d struct {
			Value float64 `json:"value"`
		}
		if err := json.Unmarshal(w.Data, &d); err != nil {
			return nil, err
		}
		return b.FloatLit(w.Line, w.Col, d.Value), nil

	case kindStringLit:
		var d struct {
			Value string `json:"value"`
		}
		if err := json.Unmarshal(w.Data, &d); err != nil {
			return nil, err
		}
		return b.StringLit(w.Line, w.Col, d.Value), nil

	case kindIdent:
		var d struct {
			Name string `json:"name"`
		}
		if err := json.Unmarshal(w.Data, &d); err != nil {
			return nil, err
		}
		return b.Ident(w.Line, w.Col, d.Name), nil

	case kindIndexExpr:
		var d struct {
			Name  string          `json:"name"`
			Index json.RawMessage `json:"index"`
		}
		if err := json.Unmarshal(w.Data, &d); err != nil {
			return nil, err
		}
		idx, err := decodeExpr(b, d.Index)
		if err != nil {
			return nil, err
		}
		return b.IndexExpr(w.Line, w.Col, d.Name, idx), nil

	case kindUnaryExpr:
		var d struct {
			Op      string          `json:"op"`
			Operand json.RawMessage `json:"operand"`
		}
		if err := json.Unmarshal(w.Data, &d); err != nil {
			return nil, err
		}
		operand, err := decodeExpr(b, d.Operand)
		if err != nil {
			return nil, err
		}
		return b.UnaryExpr(w.Line, w.Col, d.Op, operand), nil

	case kindBinaryExpr:
		var d struct {
			Op    string          `json:"op"`
			Left  json.RawMessage `json:"left"`
			Right json.RawMessage `json:"right"`
		}
		if err := json.Unmarshal(w.Data, &d); err != nil {
			return nil, err
		}
		l, err := decodeExpr(b, d.Left)
		if err != nil {
			return nil, err
		}
		r, err := decodeExpr(b, d.Right)
		if err != nil {
			return nil, err
		}
		return b.BinaryExpr(w.Line, w.Col, d.Op, l, r), nil

	case kindRelExpr:
		var d struct {
			Op    string          `json:"op"`
			Left  json.RawMessage `json:"left"`
			Right json.RawMessage `json:"right"`
		}
		if err := json.Unmarshal(w.Data, &d); err != nil {
			return nil, err
		}
		l, err := decodeExpr(b, d.Left)
		if err != nil {
			return nil, err
		}
		r, err := decodeExpr(b, d.Right)
		if err != nil {
			return nil, err
		}
		return b.RelExpr(w.Line, w.Col, d.Op, l, r), nil

	case kindNotExpr:
		var d struct {
			Operand json.RawMessage `json:"operand"`
		}
		if err := json.Unmarshal(w.Data, &d); err != nil {
			return nil, err
		}
		operand, err := decodeExpr(b, d.Operand)
		if err != nil {
			return nil, err
		}
		return b.NotExpr(w.Line, w.Col, operand), nil

	case kindLogicalExpr:
		var d struct {
			Op    string          `json:"op"`
			Left  json.RawMessage `json:"left"`
			Right json.RawMessage `json:"right"`
		}
		if err := json.Unmarshal(w.Data, &d); err != nil {
			return nil, err
		}
		l, err := decodeExpr(b, d.Left)
		if err != nil {
			return nil, err
		}
		r, err := decodeExpr(b, d.Right)
		if err != nil {
			return nil, err
		}
		return b.LogicalExpr(w.Line, w.Col, d.Op, l, r), nil

	case kindCastExpr:
		var d struct {
			Target  string          `json:"target"`
			Operand json.RawMessage `json:"operand"`
		}
		if err := json.Unmarshal(w.Data, &d); err != nil {
			return nil, err
		}
		operand, err := decodeExpr(b, d.Operand)
		if err != nil {
			return nil, err
		}
		return b.CastExpr(w.Line, w.Col, d.Target, operand), nil

	case kindCallExpr:
		var d struct {
			Name string            `json:"name"`
			Args []json.RawMessage `json:"args"`
		}
		if err := json.Unmarshal(w.Data, &d); err != nil {
			return nil, err
		}
		args, err := decodeExprList(b, d.Args)
		if err != nil {
			return nil, err
		}
		return b.CallExpr(w.Line, w.Col, d.Name, args), nil

	default:
		return nil, fmt.Errorf("unrecognized expression kind %q", w.Kind)
	}
}
