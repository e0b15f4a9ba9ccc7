package ipc

import "testing"

func TestSuccessEnvelopeCarriesDataAndNoError(t *testing.T) {
	resp := Success("req-1", map[string]int{"count": 3})
	if !resp.Success || resp.ID != "req-1" || resp.Error != "" || resp.Code != "" {
		t.Errorf("Success envelope = %+v", resp)
	}
	data, ok := resp.Data.(map[string]int)
	if !ok || data["count"] != 3 {
		t.Errorf("Data = %+v, want the original map back", resp.Data)
	}
}

func TestFailureEnvelopeCarriesCodeAndNoData(t *testing.T) {
	resp := Failure("req-2", CodeValidationError, "host is required", []string{"host"})
	if resp.Success || resp.Data != nil {
		t.Errorf("Failure envelope = %+v", resp)
	}
	if resp.Code != CodeValidationError || resp.Error != "host is required" {
		t.Errorf("Code/Error = %q/%q", resp.Code, resp.Error)
	}
}
