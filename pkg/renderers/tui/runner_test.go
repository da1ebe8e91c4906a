package tui

import (
	"context"
	"errors"
	"slices"
	"testing"

	"github.com/goliatone/go-formflow/pkg/app"
	"github.com/goliatone/go-formflow/pkg/form"
	"github.com/goliatone/go-formflow/pkg/identity"
	"github.com/goliatone/go-formflow/pkg/schema"
	"github.com/goliatone/go-formflow/pkg/testsupport"
)

type stubDriver struct {
	inputs       []string
	selectIdx    []int
	multiIdx     [][]int
	confirm      []bool
	textAreas    []string
	infoMessages []string
	inputPos     int
	selectPos    int
	multiPos     int
	confirmPos   int
	textPos      int
}

func (s *stubDriver) Input(_ context.Context, _ InputConfig) (string, error) {
	if s.inputPos >= len(s.inputs) {
		return "", errors.New("no input scripted")
	}
	val := s.inputs[s.inputPos]
	s.inputPos++
	return val, nil
}

func (s *stubDriver) Confirm(_ context.Context, _ ConfirmConfig) (bool, error) {
	if s.confirmPos >= len(s.confirm) {
		return false, errors.New("no confirm scripted")
	}
	val := s.confirm[s.confirmPos]
	s.confirmPos++
	return val, nil
}

func (s *stubDriver) Select(_ context.Context, _ SelectConfig) (int, error) {
	if s.selectPos >= len(s.selectIdx) {
		return -1, errors.New("no select scripted")
	}
	val := s.selectIdx[s.selectPos]
	s.selectPos++
	return val, nil
}

func (s *stubDriver) MultiSelect(_ context.Context, _ SelectConfig) ([]int, error) {
	if s.multiPos >= len(s.multiIdx) {
		return nil, errors.New("no multiselect scripted")
	}
	val := s.multiIdx[s.multiPos]
	s.multiPos++
	return val, nil
}

func (s *stubDriver) TextArea(_ context.Context, _ TextAreaConfig) (string, error) {
	if s.textPos >= len(s.textAreas) {
		return "", errors.New("no textarea scripted")
	}
	val := s.textAreas[s.textPos]
	s.textPos++
	return val, nil
}

func (s *stubDriver) Info(_ context.Context, msg string) error {
	s.infoMessages = append(s.infoMessages, msg)
	return nil
}

func (s *stubDriver) saw(msg string) bool {
	return slices.Contains(s.infoMessages, msg)
}

type failingService struct {
	calls int
	form  schema.FormSchema
}

func (f *failingService) RegisterIdentity(context.Context, identity.Identity) error {
	f.calls++
	if f.calls == 1 {
		return errors.New("Failed to create user")
	}
	return nil
}

func (f *failingService) FetchForm(context.Context, string) (schema.FormSchema, error) {
	return f.form, nil
}

func newRunner(driver *stubDriver) *Runner {
	return New(WithPromptDriver(driver), WithTheme(PlainTheme()))
}

func TestRun_CompletesStudentForm(t *testing.T) {
	driver := &stubDriver{
		inputs: []string{
			"42", "Ada", // login
			"Al", "bad", "123", // section 1, first pass
			"Ada Lovelace", "ada@example.com", "1234567890", // section 1, second pass
		},
		// nav next (blocked), nav next, track=Backend, shift=Evening, nav submit
		selectIdx: []int{0, 0, 1, 1, 1},
		multiIdx:  [][]int{{0, 2}},
		confirm:   []bool{true},
		textAreas: []string{""},
	}

	var submitted []form.Submission
	a := app.New(
		app.OfflineService{Schema: testsupport.StudentForm(t)},
		app.WithFormOptions(form.WithSink(form.SinkFunc(func(s form.Submission) {
			submitted = append(submitted, s)
		}))),
	)

	if err := newRunner(driver).Run(context.Background(), a); err != nil {
		t.Fatalf("run: %v (info: %v)", err, driver.infoMessages)
	}

	for _, want := range []string{
		"Minimum length is 3 characters",
		"Please enter a valid email address",
		"Please enter a valid 10-digit phone number",
		form.NoticeNext,
		"Section 1 of 2",
		"Section 2 of 2",
		"Tell us about yourself.",
		MessageSubmitted,
	} {
		if !driver.saw(want) {
			t.Fatalf("expected info %q, got %v", want, driver.infoMessages)
		}
	}

	if len(submitted) != 1 {
		t.Fatalf("expected one submission, got %d", len(submitted))
	}
	if driver.selectPos != len(driver.selectIdx) {
		t.Fatalf("expected no navigation prompt after submit, used %d of %d selects", driver.selectPos, len(driver.selectIdx))
	}
	if last := driver.infoMessages[len(driver.infoMessages)-1]; last != MessageSubmittedDetail {
		t.Fatalf("expected the run to end on the submitted view, last info %q", last)
	}
	want := map[string]any{
		"fullName": "Ada Lovelace",
		"email":    "ada@example.com",
		"phone":    "1234567890",
		"track":    "backend",
		"shift":    "pm",
		"topics":   []string{"go", "cloud"},
		"terms":    true,
	}
	if diff := testsupport.Diff(want, submitted[0].Values.Payload()); diff != "" {
		t.Fatalf("payload mismatch (-want +got):\n%s", diff)
	}
}

func TestRun_IdentityErrorsThenLoginFailureRetry(t *testing.T) {
	svc := &failingService{form: schema.FormSchema{
		FormTitle: "One",
		Sections: []schema.Section{{
			SectionID: "only",
			Fields:    []schema.Field{{ID: "note", Type: schema.FieldTypeText}},
		}},
	}}
	driver := &stubDriver{
		inputs:    []string{" ", "", "7", "Bo", "7", "Bo", "hi"},
		confirm:   []bool{true},
		selectIdx: []int{0},
	}

	a := app.New(svc)
	if err := newRunner(driver).Run(context.Background(), a); err != nil {
		t.Fatalf("run: %v", err)
	}

	for _, want := range []string{"Roll Number is required", "Name is required", "Failed to create user"} {
		if !driver.saw(want) {
			t.Fatalf("expected info %q, got %v", want, driver.infoMessages)
		}
	}
	if svc.calls != 2 {
		t.Fatalf("expected two register calls, got %d", svc.calls)
	}
	ctrl, _ := a.Form()
	if !ctrl.Submitted() || ctrl.Value("note").String() != "hi" {
		t.Fatalf("expected submitted form with note")
	}
}

func TestRun_LoginFailureWithoutRetry(t *testing.T) {
	driver := &stubDriver{
		inputs:  []string{"7", "Bo"},
		confirm: []bool{false},
	}
	err := newRunner(driver).Run(context.Background(), app.New(&failingService{}))
	if err == nil || err.Error() != "Failed to create user" {
		t.Fatalf("expected login error, got %v", err)
	}
}

func TestRun_UnsupportedFieldShowsNotice(t *testing.T) {
	driver := &stubDriver{
		inputs:    []string{"1", "A", "Joe"},
		selectIdx: []int{0},
	}
	a := app.New(app.OfflineService{Schema: testsupport.LoadForm(t, "student_form.yaml")})
	if err := newRunner(driver).Run(context.Background(), a); err != nil {
		t.Fatalf("run: %v (info: %v)", err, driver.infoMessages)
	}
	if !driver.saw("Unsupported field type: slider") {
		t.Fatalf("expected unsupported notice, got %v", driver.infoMessages)
	}
}

func TestRun_PropagatesAbort(t *testing.T) {
	driver := &stubDriver{}
	err := newRunner(driver).Run(context.Background(), app.New(&failingService{}))
	if err == nil {
		t.Fatalf("expected error when prompts run out")
	}
}
