package ingest

import (
	"encoding/json"
	"os"

	merrors "github.com/PentesterFlow/AppAtlas/internal/errors"
)

// loadJSON decodes a collaborator document into v with typed errors.
func loadJSON(path string, v interface{}) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return merrors.NewNotFound(path, "load")
		}
		return merrors.NewPersistence(path, "load", err)
	}

	if err := json.Unmarshal(data, v); err != nil {
		return merrors.NewDecode(path, err)
	}

	return nil
}

// LoadStatic loads a merged static analysis result document.
func LoadStatic(path string) (*StaticResult, error) {
	var result StaticResult
	if err := loadJSON(path, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// LoadDynamic loads a captured traffic flow list.
func LoadDynamic(path string) ([]DynamicFlow, error) {
	var flows []DynamicFlow
	if err := loadJSON(path, &flows); err != nil {
		return nil, err
	}
	return flows, nil
}

// LoadComponents loads a component enumeration result document.
func LoadComponents(path string) (*ComponentResult, error) {
	var result ComponentResult
	if err := loadJSON(path, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// LoadTool loads a raw static scanner output document.
func LoadTool(path string) (*ToolResult, error) {
	var result ToolResult
	if err := loadJSON(path, &result); err != nil {
		return nil, err
	}
	return &result, nil
}
