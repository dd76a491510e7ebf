package ast

import (
	"bytes"
	"encoding/json"
	"fmt"

	"hegel/internal/source"
)

// Decode parses an ESTree / Babel JSON document into a Node tree. The
// top-level value may be a File (Babel), a Program, or any single node.
func Decode(data []byte) (*Node, error) {
	var raw jsonNode
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("ast: malformed JSON document: %w", err)
	}
	if raw.Type == "File" && raw.Program != nil {
		return decodeRaw(raw.Program)
	}
	return raw.toNode()
}

type jsonLoc struct {
	Start jsonPos `json:"start"`
	End   jsonPos `json:"end"`
}

type jsonPos struct {
	Line   int `json:"line"`
	Column int `json:"column"`
}

type jsonNode struct {
	Type     string          `json:"type"`
	Loc      *jsonLoc        `json:"loc"`
	Name     string          `json:"name"`
	Value    json.RawMessage `json:"value"`
	Operator string          `json:"operator"`
	Kind     string          `json:"kind"`
	Computed bool            `json:"computed"`

	Program json.RawMessage `json:"program"`

	Body         json.RawMessage   `json:"body"` // node or array
	Declarations []json.RawMessage `json:"declarations"`
	Properties   []json.RawMessage `json:"properties"`
	Params       []json.RawMessage `json:"params"`
	Arguments    []json.RawMessage `json:"arguments"`
	Elements     []json.RawMessage `json:"elements"`
	Types        []json.RawMessage `json:"types"`

	ID          json.RawMessage `json:"id"`
	Init        json.RawMessage `json:"init"`
	Test        json.RawMessage `json:"test"`
	Update      json.RawMessage `json:"update"`
	Consequent  json.RawMessage `json:"consequent"`
	Alternate   json.RawMessage `json:"alternate"`
	Block       json.RawMessage `json:"block"`
	Handler     json.RawMessage `json:"handler"`
	Finalizer   json.RawMessage `json:"finalizer"`
	Param       json.RawMessage `json:"param"`
	Argument    json.RawMessage `json:"argument"`
	Declaration json.RawMessage `json:"declaration"`
	Expression  json.RawMessage `json:"expression"`
	Left        json.RawMessage `json:"left"`
	Right       json.RawMessage `json:"right"`
	Object      json.RawMessage `json:"object"`
	Property    json.RawMessage `json:"property"`
	Callee      json.RawMessage `json:"callee"`
	Key         json.RawMessage `json:"key"`

	TypeAnnotation json.RawMessage `json:"typeAnnotation"`
	ReturnType     json.RawMessage `json:"returnType"`
	TypeParameters json.RawMessage `json:"typeParameters"`
	Bound          json.RawMessage `json:"bound"`
}

func decodeRaw(data json.RawMessage) (*Node, error) {
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return nil, nil
	}
	var raw jsonNode
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("ast: malformed node: %w", err)
	}
	return raw.toNode()
}

func decodeList(items []json.RawMessage) ([]*Node, error) {
	if items == nil {
		return nil, nil
	}
	out := make([]*Node, 0, len(items))
	for _, item := range items {
		n, err := decodeRaw(item)
		if err != nil {
			return nil, err
		}
		out = append(out, n)
	}
	return out, nil
}

func (raw *jsonNode) toNode() (*Node, error) {
	if raw.Type == "" {
		return nil, nil
	}
	n := &Node{
		Type:     mapKind(raw.Type),
		Name:     raw.Name,
		Operator: raw.Operator,
		Kind:     raw.Kind,
		Computed: raw.Computed,
	}
	if raw.Loc != nil {
		n.Loc = source.NewLocation(
			raw.Loc.Start.Line, raw.Loc.Start.Column,
			raw.Loc.End.Line, raw.Loc.End.Column,
		)
	}

	if err := raw.decodeLiteral(n); err != nil {
		return nil, err
	}

	var err error
	if n.Body, n.BodyNode, err = decodeBody(raw.Body); err != nil {
		return nil, err
	}
	if n.Declarations, err = decodeList(raw.Declarations); err != nil {
		return nil, err
	}
	if n.Properties, err = decodeList(raw.Properties); err != nil {
		return nil, err
	}
	if n.Params, err = decodeList(raw.Params); err != nil {
		return nil, err
	}
	if n.Arguments, err = decodeList(raw.Arguments); err != nil {
		return nil, err
	}
	if n.Elements, err = decodeList(raw.Elements); err != nil {
		return nil, err
	}
	if n.Types, err = decodeList(raw.Types); err != nil {
		return nil, err
	}

	single := []struct {
		raw  json.RawMessage
		into **Node
	}{
		{raw.ID, &n.ID},
		{raw.Init, &n.Init},
		{raw.Test, &n.Test},
		{raw.Update, &n.Update},
		{raw.Consequent, &n.Consequent},
		{raw.Alternate, &n.Alternate},
		{raw.Block, &n.Block},
		{raw.Handler, &n.Handler},
		{raw.Finalizer, &n.Finalizer},
		{raw.Param, &n.Param},
		{raw.Argument, &n.Argument},
		{raw.Declaration, &n.Declaration},
		{raw.Expression, &n.Expression},
		{raw.Left, &n.Left},
		{raw.Right, &n.Right},
		{raw.Object, &n.Object},
		{raw.Property, &n.Property},
		{raw.Callee, &n.Callee},
		{raw.Key, &n.Key},
		{raw.Bound, &n.Bound},
	}
	for _, f := range single {
		if *f.into, err = decodeRaw(f.raw); err != nil {
			return nil, err
		}
	}

	// Object property values are nodes; literal values were consumed above.
	if raw.Value != nil && !literalValued(n.Type) {
		if n.Value, err = decodeRaw(raw.Value); err != nil {
			return nil, err
		}
	}

	if n.TypeAnnotation, err = decodeAnnotation(raw.TypeAnnotation); err != nil {
		return nil, err
	}
	if n.ReturnType, err = decodeAnnotation(raw.ReturnType); err != nil {
		return nil, err
	}
	if n.TypeParameters, err = decodeTypeParams(raw.TypeParameters); err != nil {
		return nil, err
	}

	// ESTree MethodDefinition nests the function in .value; flatten it so
	// class methods look like the Babel ClassMethod shape.
	if raw.Type == "MethodDefinition" && n.Value != nil {
		n.Params = n.Value.Params
		n.BodyNode = n.Value.BodyNode
		n.ReturnType = n.Value.ReturnType
		n.Value = nil
	}

	return n, nil
}

// decodeLiteral fills literal payloads, resolving the generic ESTree
// "Literal" type to a specific literal kind by the shape of its value.
func (raw *jsonNode) decodeLiteral(n *Node) error {
	isGeneric := raw.Type == "Literal"
	if !isGeneric && !literalValued(n.Type) {
		return nil
	}
	if raw.Value == nil || bytes.Equal(raw.Value, []byte("null")) {
		if isGeneric {
			n.Type = NullLiteral
		}
		return nil
	}
	var v any
	if err := json.Unmarshal(raw.Value, &v); err != nil {
		return fmt.Errorf("ast: malformed literal value: %w", err)
	}
	switch v := v.(type) {
	case string:
		n.StringValue = v
		if isGeneric {
			n.Type = StringLiteral
		}
	case float64:
		n.NumberValue = v
		if isGeneric {
			n.Type = NumericLiteral
		}
	case bool:
		n.BoolValue = v
		if isGeneric {
			n.Type = BooleanLiteral
		}
	}
	return nil
}

// decodeBody handles the polymorphic "body" field: an array for programs
// and blocks, a single node for function and loop bodies.
func decodeBody(data json.RawMessage) ([]*Node, *Node, error) {
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return nil, nil, nil
	}
	trimmed := bytes.TrimLeft(data, " \t\r\n")
	if len(trimmed) > 0 && trimmed[0] == '[' {
		var items []json.RawMessage
		if err := json.Unmarshal(data, &items); err != nil {
			return nil, nil, fmt.Errorf("ast: malformed body list: %w", err)
		}
		list, err := decodeList(items)
		if err != nil {
			return nil, nil, err
		}
		if list == nil {
			list = []*Node{}
		}
		return list, nil, nil
	}
	n, err := decodeRaw(data)
	return nil, n, err
}

// decodeAnnotation decodes a type annotation, unwrapping the TypeAnnotation
// container Babel places around the actual annotation node.
func decodeAnnotation(data json.RawMessage) (*Node, error) {
	n, err := decodeRaw(data)
	if err != nil || n == nil {
		return n, err
	}
	if n.Type == TypeAnnotation && n.TypeAnnotation != nil {
		return n.TypeAnnotation, nil
	}
	return n, nil
}

// decodeTypeParams decodes a TypeParameterDeclaration / Instantiation
// wrapper into its parameter list.
func decodeTypeParams(data json.RawMessage) ([]*Node, error) {
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return nil, nil
	}
	var wrapper struct {
		Params []json.RawMessage `json:"params"`
	}
	if err := json.Unmarshal(data, &wrapper); err != nil {
		return nil, fmt.Errorf("ast: malformed type parameters: %w", err)
	}
	return decodeList(wrapper.Params)
}

// literalValued reports whether a kind carries a scalar "value" payload
// rather than a child node under that key.
func literalValued(k NodeKind) bool {
	if k.IsLiteral() {
		return true
	}
	switch k {
	case StringLiteralTypeAnn, NumberLiteralTypeAnn, BooleanLiteralTypeAnn:
		return true
	}
	return false
}

// mapKind resolves aliases between ESTree and Babel node type names.
func mapKind(typ string) NodeKind {
	switch typ {
	case "Property":
		return ObjectProperty
	case "MethodDefinition":
		return ClassMethod
	default:
		return NodeKind(typ)
	}
}
