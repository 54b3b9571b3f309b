package backend

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
)

type PatientService struct {
	Options []RequestOption
}

func NewPatientService(opts ...RequestOption) PatientService {
	return PatientService{
		Options: opts,
	}
}

func (r *PatientService) List(ctx context.Context, opts ...RequestOption) ([]Patient, error) {
	c := newRequestConfig(append(r.Options, opts...)...)

	req, _ := http.NewRequestWithContext(ctx, "GET", c.URL+"/api/patients", nil)

	if c.Token != "" {
		req.Header.Set("Authorization", "Bearer "+c.Token)
	}

	resp, err := c.Client.Do(req)

	if err != nil {
		return nil, &NetworkError{Operation: "patients.list", Err: err}
	}

	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, convertError("patients.list", resp)
	}

	var result []Patient

	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, err
	}

	return result, nil
}

func (r *PatientService) Get(ctx context.Context, id string, opts ...RequestOption) (*PatientDetail, error) {
	c := newRequestConfig(append(r.Options, opts...)...)

	req, _ := http.NewRequestWithContext(ctx, "GET", c.URL+"/api/patient/"+url.PathEscape(id), nil)

	if c.Token != "" {
		req.Header.Set("Authorization", "Bearer "+c.Token)
	}

	resp, err := c.Client.Do(req)

	if err != nil {
		return nil, &NetworkError{Operation: "patients.get", Err: err}
	}

	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, convertError("patients.get", resp)
	}

	var result PatientDetail

	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, err
	}

	return &result, nil
}
