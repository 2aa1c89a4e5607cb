package models

import "encoding/json"

func cloneJSON(w *Workflow) (*Workflow, error) {
	data, err := json.Marshal(w)
	if err != nil {
		return nil, err
	}
	var clone Workflow
	if err := json.Unmarshal(data, &clone); err != nil {
		return nil, err
	}
	return &clone, nil
}
