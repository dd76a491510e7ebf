package ast

import (
	"testing"
)

const babelDoc = `{
  "type": "File",
  "program": {
    "type": "Program",
    "loc": {"start": {"line": 1, "column": 0}, "end": {"line": 1, "column": 16}},
    "body": [
      {
        "type": "VariableDeclaration",
        "kind": "const",
        "loc": {"start": {"line": 1, "column": 0}, "end": {"line": 1, "column": 16}},
        "declarations": [
          {
            "type": "VariableDeclarator",
            "loc": {"start": {"line": 1, "column": 6}, "end": {"line": 1, "column": 15}},
            "id": {
              "type": "Identifier",
              "name": "x",
              "loc": {"start": {"line": 1, "column": 6}, "end": {"line": 1, "column": 7}}
            },
            "init": {
              "type": "BinaryExpression",
              "operator": "+",
              "loc": {"start": {"line": 1, "column": 10}, "end": {"line": 1, "column": 15}},
              "left": {"type": "NumericLiteral", "value": 1},
              "right": {"type": "NumericLiteral", "value": 2}
            }
          }
        ]
      }
    ]
  }
}`

func TestDecodeBabelDocument(t *testing.T) {
	prog, err := Decode([]byte(babelDoc))
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if prog.Type != Program {
		t.Fatalf("Expected Program, got %s", prog.Type)
	}
	if len(prog.Body) != 1 {
		t.Fatalf("Expected one statement, got %d", len(prog.Body))
	}

	decl := prog.Body[0]
	if decl.Type != VariableDeclaration || decl.Kind != "const" {
		t.Fatalf("Unexpected declaration: %s %s", decl.Type, decl.Kind)
	}
	d := decl.Declarations[0]
	if d.ID.Name != "x" {
		t.Errorf("Expected binding x, got %q", d.ID.Name)
	}
	if d.Init.Type != BinaryExpression || d.Init.Operator != "+" {
		t.Errorf("Unexpected init: %s %s", d.Init.Type, d.Init.Operator)
	}
	if d.Init.Left.NumberValue != 1 || d.Init.Right.NumberValue != 2 {
		t.Error("Literal operands decoded incorrectly")
	}
	if d.Loc.Start.Line != 1 || d.Loc.Start.Column != 6 {
		t.Errorf("Location decoded incorrectly: %s", d.Loc)
	}
}

func TestDecodeESTreeLiterals(t *testing.T) {
	doc := `{
	  "type": "Program",
	  "body": [
	    {"type": "ExpressionStatement", "expression": {"type": "Literal", "value": "hi"}},
	    {"type": "ExpressionStatement", "expression": {"type": "Literal", "value": 3}},
	    {"type": "ExpressionStatement", "expression": {"type": "Literal", "value": true}},
	    {"type": "ExpressionStatement", "expression": {"type": "Literal", "value": null}}
	  ]
	}`
	prog, err := Decode([]byte(doc))
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	want := []NodeKind{StringLiteral, NumericLiteral, BooleanLiteral, NullLiteral}
	for i, kind := range want {
		got := prog.Body[i].Expression.Type
		if got != kind {
			t.Errorf("Literal %d: expected %s, got %s", i, kind, got)
		}
	}
	if prog.Body[0].Expression.StringValue != "hi" {
		t.Error("String literal payload lost")
	}
}

func TestDecodeTypeAnnotation(t *testing.T) {
	doc := `{
	  "type": "Program",
	  "body": [
	    {
	      "type": "VariableDeclaration",
	      "kind": "let",
	      "declarations": [
	        {
	          "type": "VariableDeclarator",
	          "id": {
	            "type": "Identifier",
	            "name": "n",
	            "typeAnnotation": {
	              "type": "TypeAnnotation",
	              "typeAnnotation": {"type": "NumberTypeAnnotation"}
	            }
	          }
	        }
	      ]
	    }
	  ]
	}`
	prog, err := Decode([]byte(doc))
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	id := prog.Body[0].Declarations[0].ID
	if id.TypeAnnotation == nil || id.TypeAnnotation.Type != NumberTypeAnnotation {
		t.Fatalf("Annotation wrapper not unwrapped: %v", id.TypeAnnotation)
	}
}

func TestDecodeTypeAlias(t *testing.T) {
	doc := `{
	  "type": "Program",
	  "body": [
	    {
	      "type": "TypeAlias",
	      "id": {"type": "Identifier", "name": "Box"},
	      "typeParameters": {
	        "type": "TypeParameterDeclaration",
	        "params": [{"type": "TypeParameter", "name": "T"}]
	      },
	      "right": {
	        "type": "ObjectTypeAnnotation",
	        "properties": [
	          {
	            "type": "ObjectTypeProperty",
	            "key": {"type": "Identifier", "name": "v"},
	            "value": {"type": "GenericTypeAnnotation", "id": {"type": "Identifier", "name": "T"}}
	          }
	        ]
	      }
	    }
	  ]
	}`
	prog, err := Decode([]byte(doc))
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	alias := prog.Body[0]
	if alias.Type != TypeAlias || alias.ID.Name != "Box" {
		t.Fatalf("Unexpected alias node: %s", alias.Type)
	}
	if len(alias.TypeParameters) != 1 || alias.TypeParameters[0].Name != "T" {
		t.Fatal("Type parameters not decoded")
	}
	prop := alias.Right.Properties[0]
	if prop.Key.Name != "v" || prop.Value.Type != GenericTypeAnnotation {
		t.Error("Object type annotation property decoded incorrectly")
	}
}
