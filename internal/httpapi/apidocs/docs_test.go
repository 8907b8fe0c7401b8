package apidocs

import (
	"encoding/json"
	"testing"
)

func TestDocIsValidJSON(t *testing.T) {
	var doc map[string]any
	if err := json.Unmarshal([]byte(SwaggerInfo.ReadDoc()), &doc); err != nil {
		t.Fatalf("doc is not JSON: %v", err)
	}
	paths, _ := doc["paths"].(map[string]any)
	for _, p := range []string{"/status", "/snapshot.jpg", "/monitor/start", "/monitor/stop"} {
		if _, ok := paths[p]; !ok {
			t.Fatalf("path %s missing", p)
		}
	}
}
