package headers

// Doc is the codec-neutral form of Headers: axes, then indices, then records.
type Doc [][][]RecordDoc

// ToDoc converts h for serialization.
func ToDoc(h Headers) Doc {
	if h == nil {
		return nil
	}
	out := make(Doc, len(h))
	for i, d := range h {
		out[i] = make([][]RecordDoc, len(d))
		for j, g := range d {
			out[i][j] = make([]RecordDoc, len(g))
			for k, r := range g {
				out[i][j][k] = r.Doc()
			}
		}
	}
	return out
}

// FromDocs rebuilds Headers from their serialized form.
func FromDocs(doc Doc) (Headers, error) {
	if doc == nil {
		return nil, nil
	}
	out := make(Headers, len(doc))
	for i, d := range doc {
		out[i] = make(Dimension, len(d))
		for j, g := range d {
			out[i][j] = make(Group, len(g))
			for k, rd := range g {
				r, err := FromDoc(rd)
				if err != nil {
					return nil, err
				}
				out[i][j][k] = r
			}
		}
	}
	return out, nil
}
