package store

// Serialize renders a stored document for the wire: the internal identifier
// field is renamed to "id" and rendered as text, and DocID values nested in
// sub-structures are converted to text as well. Empty input passes through
// unchanged. Serializing an already-serialized document is a no-op.
func Serialize(doc Document) Document {
	if len(doc) == 0 {
		return doc
	}

	out := make(Document, len(doc))
	for k, v := range doc {
		out[k] = stringifyIDs(v)
	}

	if v, ok := out[FieldID]; ok {
		delete(out, FieldID)
		out["id"] = v
	}

	return out
}

func stringifyIDs(v any) any {
	switch t := v.(type) {
	case DocID:
		return t.String()
	case Document:
		return map[string]any(Serialize(t))
	case map[string]any:
		return map[string]any(Serialize(Document(t)))
	case []any:
		out := make([]any, len(t))
		for i, e := range t {
			out[i] = stringifyIDs(e)
		}
		return out
	default:
		return v
	}
}
