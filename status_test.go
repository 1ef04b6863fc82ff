package nyquest

import "testing"

func TestStatusCodeClassification(t *testing.T) {
	cases := []struct {
		code                                                     StatusCode
		info, ok, redirect, clientErr, serverErr, invalid bool
	}{
		{50, false, false, false, false, false, true},
		{101, true, false, false, false, false, false},
		{200, false, true, false, false, false, false},
		{301, false, false, true, false, false, false},
		{404, false, false, false, true, false, false},
		{503, false, false, false, false, true, false},
		{700, false, false, false, false, false, true},
	}
	for _, c := range cases {
		if got := c.code.IsInformational(); got != c.info {
			t.Errorf("%d.IsInformational() = %v, want %v", c.code, got, c.info)
		}
		if got := c.code.IsSuccessful(); got != c.ok {
			t.Errorf("%d.IsSuccessful() = %v, want %v", c.code, got, c.ok)
		}
		if got := c.code.IsRedirection(); got != c.redirect {
			t.Errorf("%d.IsRedirection() = %v, want %v", c.code, got, c.redirect)
		}
		if got := c.code.IsClientError(); got != c.clientErr {
			t.Errorf("%d.IsClientError() = %v, want %v", c.code, got, c.clientErr)
		}
		if got := c.code.IsServerError(); got != c.serverErr {
			t.Errorf("%d.IsServerError() = %v, want %v", c.code, got, c.serverErr)
		}
		if got := c.code.IsInvalid(); got != c.invalid {
			t.Errorf("%d.IsInvalid() = %v, want %v", c.code, got, c.invalid)
		}
	}
}

func TestStatusCodeEqualAndString(t *testing.T) {
	s := StatusCode(204)
	if !s.Equal(204) {
		t.Error("expected Equal(204) to be true")
	}
	if s.Equal(200) {
		t.Error("expected Equal(200) to be false")
	}
	if s.String() != "204" {
		t.Errorf("String() = %q, want %q", s.String(), "204")
	}
	if s.Code() != 204 {
		t.Errorf("Code() = %d, want 204", s.Code())
	}
}

func TestDefaultStatusCode(t *testing.T) {
	if DefaultStatusCode != 200 {
		t.Errorf("DefaultStatusCode = %d, want 200", DefaultStatusCode)
	}
}
