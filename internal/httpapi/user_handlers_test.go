package httpapi

import (
	"errors"
	"net/http"
	"reflect"
	"testing"

	"orgsync.dev/internal/directory"
)

func twoProductsOneOrg() *fakeDirectory {
	return &fakeDirectory{products: []directory.Product{
		{Name: "orgA", Token: "P1", OrgToken: "T1"},
		{Name: "orgB", Token: "P2", OrgToken: "T1"},
	}}
}

func TestCreateAndAssignUser(t *testing.T) {
	dir := twoProductsOneOrg()
	api := newTestAPI(t, dir)

	resp := api.do(http.MethodPut, "/createAndAssignUser", map[string]any{
		"fullName":   "Jane Doe",
		"userEmail":  "jane@example.com",
		"wsRole":     "productAdmins",
		"ghOrgNames": []string{"orgA", "orgB", "ghost"},
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("unexpected status: %d", resp.StatusCode)
	}
	body := decode[map[string]any](t, resp)
	if body["message"] != "successfully set product assignments" {
		t.Fatalf("unexpected message: %v", body["message"])
	}
	unresolved, _ := body["unresolved"].([]any)
	if len(unresolved) != 1 || unresolved[0] != "ghost" {
		t.Fatalf("expected ghost unresolved, got %v", body["unresolved"])
	}

	want := []string{
		"listProducts",
		"createUser",
		"createGroup", "assignGroupToScope", "assignUserToGroup",
		"createGroup", "assignGroupToScope", "assignUserToGroup",
	}
	if !reflect.DeepEqual(dir.calls, want) {
		t.Fatalf("unexpected call sequence: %v", dir.calls)
	}
}

func TestCreateAndAssignUserRejectsBadRole(t *testing.T) {
	dir := twoProductsOneOrg()
	api := newTestAPI(t, dir)

	resp := api.do(http.MethodPut, "/createAndAssignUser", map[string]any{
		"fullName":   "Jane Doe",
		"userEmail":  "jane@example.com",
		"wsRole":     "superuser",
		"ghOrgNames": []string{"orgA"},
	})
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}
	body := decode[map[string]any](t, resp)
	if body["kind"] != "validation" || body["field"] != "role" {
		t.Fatalf("unexpected error payload: %v", body)
	}
	if body["request_id"] == "" {
		t.Fatal("expected request_id in error payload")
	}
	if len(dir.calls) != 0 {
		t.Fatalf("invalid role must not reach the directory: %v", dir.calls)
	}
}

func TestCreateAndAssignUserRejectsUnknownFields(t *testing.T) {
	api := newTestAPI(t, &fakeDirectory{})

	resp := api.do(http.MethodPut, "/createAndAssignUser", map[string]any{
		"fullName": "Jane",
		"surprise": true,
	})
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}
}

func TestCreateAndAssignUserRemoteFailure(t *testing.T) {
	dir := twoProductsOneOrg()
	dir.callErr = &directory.CallError{Op: "createUser", Err: errors.New("boom")}
	api := newTestAPI(t, dir)

	resp := api.do(http.MethodPut, "/createAndAssignUser", map[string]any{
		"fullName":   "Jane Doe",
		"userEmail":  "jane@example.com",
		"wsRole":     "productAdmins",
		"ghOrgNames": []string{"orgA"},
	})
	if resp.StatusCode != http.StatusBadGateway {
		t.Fatalf("expected 502, got %d", resp.StatusCode)
	}
	body := decode[map[string]any](t, resp)
	if body["kind"] != "remote" || body["operation"] != "createUser" {
		t.Fatalf("expected failing operation identified, got %v", body)
	}
}

func TestCreateAndAssignUserMethod(t *testing.T) {
	api := newTestAPI(t, &fakeDirectory{})

	resp := api.do(http.MethodPost, "/createAndAssignUser", map[string]any{})
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusMethodNotAllowed {
		t.Fatalf("expected 405, got %d", resp.StatusCode)
	}
	if resp.Header.Get("Allow") != http.MethodPut {
		t.Fatalf("unexpected Allow header: %q", resp.Header.Get("Allow"))
	}
}

func TestDeleteUserWithOrgList(t *testing.T) {
	dir := twoProductsOneOrg()
	api := newTestAPI(t, dir)

	resp := api.do(http.MethodPut, "/deleteUser", map[string]any{
		"email":      "u@x.com",
		"ghOrgNames": []string{"orgA", "orgB"},
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("unexpected status: %d", resp.StatusCode)
	}
	body := decode[map[string]any](t, resp)
	if body["organizations"] != float64(1) {
		t.Fatalf("expected one distinct organization, got %v", body["organizations"])
	}

	want := []string{"listProducts", "deleteUser:T1"}
	if !reflect.DeepEqual(dir.calls, want) {
		t.Fatalf("unexpected call sequence: %v", dir.calls)
	}
}

func TestDeleteUserAccountWide(t *testing.T) {
	dir := twoProductsOneOrg()
	api := newTestAPI(t, dir)

	resp := api.do(http.MethodPut, "/deleteUser", map[string]any{
		"email": "u@x.com",
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("unexpected status: %d", resp.StatusCode)
	}
	body := decode[map[string]any](t, resp)
	if body["all_organizations"] != true {
		t.Fatalf("expected account-wide delete, got %v", body)
	}

	want := []string{"deleteUser:account"}
	if !reflect.DeepEqual(dir.calls, want) {
		t.Fatalf("unexpected call sequence: %v", dir.calls)
	}
}

func TestDeleteUserRejectsBadEmail(t *testing.T) {
	dir := &fakeDirectory{}
	api := newTestAPI(t, dir)

	resp := api.do(http.MethodPut, "/deleteUser", map[string]any{
		"email": "not-an-email",
	})
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}
	body := decode[map[string]any](t, resp)
	if body["field"] != "email" {
		t.Fatalf("unexpected error payload: %v", body)
	}
	if len(dir.calls) != 0 {
		t.Fatalf("invalid email must not reach the directory: %v", dir.calls)
	}
}
