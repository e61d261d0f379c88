package http

import "addrcheck/internal/modkit/swaggerkit"

func ref(name string) map[string]any {
	return map[string]any{"$ref": "#/components/schemas/" + name}
}

func jsonBody(schema map[string]any) map[string]any {
	return map[string]any{"application/json": map[string]any{"schema": schema}}
}

func op(summary, tag string, params []any, body string, responses map[string]string) map[string]any {
	o := map[string]any{"summary": summary, "tags": []any{tag}}
	if len(params) > 0 {
		o["parameters"] = params
	}
	if body != "" {
		o["requestBody"] = map[string]any{"required": true, "content": jsonBody(ref(body))}
	}
	rs := map[string]any{}
	for code, schema := range responses {
		rs[code] = map[string]any{"description": code, "content": jsonBody(ref(schema))}
	}
	o["responses"] = rs
	return o
}

func param(name, in string, required bool, typ string) map[string]any {
	return map[string]any{"name": name, "in": in, "required": required, "schema": map[string]any{"type": typ}}
}

func str(example string) map[string]any {
	return map[string]any{"type": "string", "example": example}
}

func object(props map[string]any, required ...string) map[string]any {
	o := map[string]any{"type": "object", "properties": props}
	if len(required) > 0 {
		req := make([]any, len(required))
		for i, r := range required {
			req[i] = r
		}
		o["required"] = req
	}
	return o
}

// describe adds the verification paths and schemas to the served document
func describe(spec map[string]any) {
	s := swaggerkit.Components(spec)
	s["SubmitInput"] = object(map[string]any{"text": str("1BoatSLRHtKNngkdXEeobR76b53LETtpyT")}, "text")
	s["ChoiceInput"] = object(map[string]any{"blockchain": str("Bitcoin")}, "blockchain")
	s["CallbackInput"] = object(map[string]any{"data": str("0f8fad5bd9cb469fa16570867728950e:BTC")}, "data")
	s["ChainOption"] = object(map[string]any{"label": str("Bitcoin"), "code": str("BTC")})
	s["Result"] = object(map[string]any{"content": str("Risk score: 12%"), "detail": str("exchange 60%")})
	s["Submission"] = object(map[string]any{
		"status":     map[string]any{"type": "string", "enum": []any{"accepted", "rejected"}},
		"request_id": str("0f8fad5bd9cb469fa16570867728950e"),
		"address":    str("1BoatSLRHtKNngkdXEeobR76b53LETtpyT"),
		"choices":    map[string]any{"type": "array", "items": ref("ChainOption")},
		"message":    str("address not recognized"),
	}, "status")
	s["Outcome"] = object(map[string]any{
		"status": map[string]any{"type": "string",
			"enum": []any{"delivered", "working", "expired", "failed", "ignored", "pending"}},
		"request_id": str("0f8fad5bd9cb469fa16570867728950e"),
		"blockchain": str("BTC"),
		"result":     ref("Result"),
		"message":    str("Checking the address 1BoatSLRHtKNngkdXEeobR76b53LETtpyT on blockchain BTC"),
	}, "status")
	s["HistoryEntry"] = object(map[string]any{
		"request_id": str("0f8fad5bd9cb469fa16570867728950e"),
		"address":    str("1BoatSLRHtKNngkdXEeobR76b53LETtpyT"),
		"blockchain": str("BTC"),
		"status":     str("delivered"),
		"content":    str("Risk score: 12%"),
		"detail":     str(""),
		"attempts":   map[string]any{"type": "integer"},
		"created_at": map[string]any{"type": "string", "format": "date-time"},
	})
	s["ChainList"] = map[string]any{"type": "array", "items": ref("ChainOption")}
	s["HistoryList"] = map[string]any{"type": "array", "items": ref("HistoryEntry")}

	id := param("id", "path", true, "string")
	p := swaggerkit.Paths(spec)
	p["/checks"] = map[string]any{
		"post": op("Submit an address for verification", "Checks", nil, "SubmitInput",
			map[string]string{"201": "Submission", "200": "Submission", "400": "ErrorResponse"}),
	}
	p["/checks/{id}"] = map[string]any{
		"get": op("Read the state or delivered result of a request", "Checks", []any{id}, "",
			map[string]string{"200": "Outcome"}),
	}
	p["/checks/{id}/choice"] = map[string]any{
		"post": op("Choose the blockchain for a pending request", "Checks", []any{id}, "ChoiceInput",
			map[string]string{"200": "Outcome", "202": "Outcome", "400": "ErrorResponse"}),
	}
	p["/callbacks"] = map[string]any{
		"post": op("Apply a chat callback payload", "Checks", nil, "CallbackInput",
			map[string]string{"200": "Outcome", "202": "Outcome"}),
	}
	p["/chains"] = map[string]any{
		"get": op("Supported blockchains", "Chains", nil, "", map[string]string{"200": "ChainList"}),
	}
	p["/history"] = map[string]any{
		"get": op("Journaled outcomes for an address", "History",
			[]any{param("address", "query", true, "string"), param("limit", "query", false, "integer")}, "",
			map[string]string{"200": "HistoryList", "422": "ErrorResponse", "503": "ErrorResponse"}),
	}
}

// RegisterDocs adds the verification paths to the swagger document
func RegisterDocs() { swaggerkit.Register("verify", describe) }
