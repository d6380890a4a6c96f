package http_test

import (
	"net/http"
	"sync"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson"

	"github.com/tazhibayda/crm-service/internal/security"
)

func Test_Register_Login_Me(t *testing.T) {
	env := newTestEnv(t)
	defer env.Close()

	// REGISTER: 201 + user with defaults + token
	reg := env.register("john@example.com", "StrongP@ss1")
	if reg.User["email"] != "john@example.com" {
		t.Fatalf("register user: %+v", reg.User)
	}
	if reg.User["language"] != "zh" || reg.User["theme"] != "classic" {
		t.Fatalf("defaults not applied: %+v", reg.User)
	}
	if _, leaked := reg.User["passwordHash"]; leaked {
		t.Fatalf("password hash leaked: %+v", reg.User)
	}

	// LOGIN
	w := env.do("POST", "/api/auth/login", `{"email":"john@example.com","password":"StrongP@ss1"}`, "")
	if w.Code != http.StatusOK {
		t.Fatalf("login code=%d body=%s", w.Code, w.Body.String())
	}
	var lr authResult
	decodeJSON(t, w, &lr)
	if lr.Token == "" {
		t.Fatalf("login: empty token; body=%s", w.Body.String())
	}
	if lr.User["id"] != reg.User["id"] {
		t.Fatalf("login resolved a different user: %v vs %v", lr.User["id"], reg.User["id"])
	}

	// ME
	w = env.do("GET", "/api/users/me", "", lr.Token)
	if w.Code != http.StatusOK {
		t.Fatalf("me code=%d body=%s", w.Code, w.Body.String())
	}
	var me map[string]any
	decodeJSON(t, w, &me)
	if me["email"] != "john@example.com" || me["id"] != reg.User["id"] {
		t.Fatalf("me: %+v", me)
	}
}

func Test_Register_DuplicateEmail(t *testing.T) {
	env := newTestEnv(t)
	defer env.Close()

	env.register("dup@example.com", "firstPass1")

	w := env.do("POST", "/api/auth/register", `{"email":"dup@example.com","password":"secondPass2"}`, "")
	if w.Code != http.StatusConflict {
		t.Fatalf("duplicate register: code=%d body=%s", w.Code, w.Body.String())
	}
	var er map[string]string
	decodeJSON(t, w, &er)
	if er["error"] != "Email already registered" {
		t.Fatalf("duplicate register body: %s", w.Body.String())
	}

	// the original account is untouched: old password still works, new does not
	if w := env.do("POST", "/api/auth/login", `{"email":"dup@example.com","password":"firstPass1"}`, ""); w.Code != http.StatusOK {
		t.Fatalf("original login broken: %d %s", w.Code, w.Body.String())
	}
	if w := env.do("POST", "/api/auth/login", `{"email":"dup@example.com","password":"secondPass2"}`, ""); w.Code != http.StatusUnauthorized {
		t.Fatalf("second password must not work: %d %s", w.Code, w.Body.String())
	}
}

func Test_Register_MissingFields(t *testing.T) {
	env := newTestEnv(t)
	defer env.Close()

	for _, body := range []string{`{}`, `{"email":"a@b.c"}`, `{"password":"x"}`, `not json`} {
		w := env.do("POST", "/api/auth/register", body, "")
		if w.Code != http.StatusBadRequest {
			t.Fatalf("body %q: code=%d resp=%s", body, w.Code, w.Body.String())
		}
	}
}

func Test_Login_UniformUnauthorized(t *testing.T) {
	env := newTestEnv(t)
	defer env.Close()

	env.register("real@example.com", "rightPass1")

	wrongPass := env.do("POST", "/api/auth/login", `{"email":"real@example.com","password":"wrongPass"}`, "")
	noSuchUser := env.do("POST", "/api/auth/login", `{"email":"ghost@example.com","password":"whatever"}`, "")

	if wrongPass.Code != http.StatusUnauthorized || noSuchUser.Code != http.StatusUnauthorized {
		t.Fatalf("codes: %d / %d", wrongPass.Code, noSuchUser.Code)
	}
	// identical bodies: the response must not reveal whether the account exists
	if wrongPass.Body.String() != noSuchUser.Body.String() {
		t.Fatalf("enumeration leak: %q vs %q", wrongPass.Body.String(), noSuchUser.Body.String())
	}
}

func Test_AuthGuard(t *testing.T) {
	env := newTestEnv(t)
	defer env.Close()

	reg := env.register("guard@example.com", "somePass1")
	uid, _ := reg.User["id"].(string)
	if uid == "" {
		t.Fatalf("no user id in register response: %+v", reg.User)
	}

	// no header
	if w := env.do("GET", "/api/users/me", "", ""); w.Code != http.StatusUnauthorized {
		t.Fatalf("no token: %d %s", w.Code, w.Body.String())
	}
	// garbage token
	if w := env.do("GET", "/api/users/me", "", "garbage.token.here"); w.Code != http.StatusUnauthorized {
		t.Fatalf("garbage token: %d %s", w.Code, w.Body.String())
	}
	// expired token, correctly signed
	expired, err := security.MakeAccess(testJWTSecret, uid, "guard@example.com", -time.Minute)
	if err != nil {
		t.Fatal(err)
	}
	if w := env.do("GET", "/api/users/me", "", expired); w.Code != http.StatusUnauthorized {
		t.Fatalf("expired token: %d %s", w.Code, w.Body.String())
	}
	// valid signature, wrong secret
	forged, err := security.MakeAccess("other-secret", uid, "guard@example.com", time.Minute)
	if err != nil {
		t.Fatal(err)
	}
	if w := env.do("GET", "/api/users/me", "", forged); w.Code != http.StatusUnauthorized {
		t.Fatalf("forged token: %d %s", w.Code, w.Body.String())
	}
	// token for a user that no longer exists
	gone, err := security.MakeAccess(testJWTSecret, "65a0000000000000000000ff", "gone@example.com", time.Minute)
	if err != nil {
		t.Fatal(err)
	}
	if w := env.do("GET", "/api/users/me", "", gone); w.Code != http.StatusUnauthorized {
		t.Fatalf("deleted user token: %d %s", w.Code, w.Body.String())
	}
}

func Test_GoogleLogin(t *testing.T) {
	env := newTestEnv(t)
	defer env.Close()

	// missing idToken
	if w := env.do("POST", "/api/auth/google", `{}`, ""); w.Code != http.StatusBadRequest {
		t.Fatalf("missing idToken: %d %s", w.Code, w.Body.String())
	}
	// invalid idToken
	if w := env.do("POST", "/api/auth/google", `{"idToken":"bogus"}`, ""); w.Code != http.StatusUnauthorized {
		t.Fatalf("bogus idToken: %d %s", w.Code, w.Body.String())
	}

	// first login provisions the account from the token profile
	tok := env.googleIDToken("fed@example.com", "Fed Erated", "https://img.example.com/a.png")
	w := env.do("POST", "/api/auth/google", `{"idToken":"`+tok+`"}`, "")
	if w.Code != http.StatusOK {
		t.Fatalf("google login: %d %s", w.Code, w.Body.String())
	}
	var first authResult
	decodeJSON(t, w, &first)
	if first.User["email"] != "fed@example.com" || first.User["displayName"] != "Fed Erated" {
		t.Fatalf("provisioned user: %+v", first.User)
	}
	if first.User["avatar"] != "https://img.example.com/a.png" {
		t.Fatalf("avatar not set: %+v", first.User)
	}
	if first.User["language"] != "zh" || first.User["theme"] != "classic" {
		t.Fatalf("defaults not applied: %+v", first.User)
	}

	// second login is idempotent: same account, no duplicate
	w = env.do("POST", "/api/auth/google", `{"idToken":"`+tok+`"}`, "")
	if w.Code != http.StatusOK {
		t.Fatalf("google relogin: %d %s", w.Code, w.Body.String())
	}
	var second authResult
	decodeJSON(t, w, &second)
	if second.User["id"] != first.User["id"] {
		t.Fatalf("relogin created a new user: %v vs %v", second.User["id"], first.User["id"])
	}

	// session token works against protected routes
	if w := env.do("GET", "/api/users/me", "", second.Token); w.Code != http.StatusOK {
		t.Fatalf("me with google session: %d %s", w.Code, w.Body.String())
	}

	// token without a name falls back to the email local part
	tok2 := env.googleIDToken("noname@example.com", "", "")
	w = env.do("POST", "/api/auth/google", `{"idToken":"`+tok2+`"}`, "")
	if w.Code != http.StatusOK {
		t.Fatalf("google login noname: %d %s", w.Code, w.Body.String())
	}
	var third authResult
	decodeJSON(t, w, &third)
	if third.User["displayName"] != "noname" {
		t.Fatalf("display name fallback: %+v", third.User)
	}
}

func Test_GoogleLogin_KeepsCustomizedProfile(t *testing.T) {
	env := newTestEnv(t)
	defer env.Close()

	tok := env.googleIDToken("keep@example.com", "Initial Name", "https://img.example.com/initial.png")
	w := env.do("POST", "/api/auth/google", `{"idToken":"`+tok+`"}`, "")
	if w.Code != http.StatusOK {
		t.Fatalf("first login: %d %s", w.Code, w.Body.String())
	}
	var first authResult
	decodeJSON(t, w, &first)

	// the user customizes both fields
	w = env.do("PATCH", "/api/users/me",
		`{"displayName":"My Name","avatar":"https://me.example.com/custom.png"}`, first.Token)
	if w.Code != http.StatusOK {
		t.Fatalf("customize: %d %s", w.Code, w.Body.String())
	}

	// a later login carries different profile data; customization wins
	tok2 := env.googleIDToken("keep@example.com", "Changed Name", "https://img.example.com/changed.png")
	w = env.do("POST", "/api/auth/google", `{"idToken":"`+tok2+`"}`, "")
	if w.Code != http.StatusOK {
		t.Fatalf("relogin: %d %s", w.Code, w.Body.String())
	}
	var again authResult
	decodeJSON(t, w, &again)
	if again.User["displayName"] != "My Name" {
		t.Fatalf("display name overwritten: %+v", again.User)
	}
	if again.User["avatar"] != "https://me.example.com/custom.png" {
		t.Fatalf("avatar overwritten: %+v", again.User)
	}

	// an emptied field is fair game for a refresh again
	if w := env.do("PATCH", "/api/users/me", `{"displayName":""}`, first.Token); w.Code != http.StatusOK {
		t.Fatalf("clear: %d %s", w.Code, w.Body.String())
	}
	w = env.do("POST", "/api/auth/google", `{"idToken":"`+tok2+`"}`, "")
	if w.Code != http.StatusOK {
		t.Fatalf("relogin2: %d %s", w.Code, w.Body.String())
	}
	decodeJSON(t, w, &again)
	if again.User["displayName"] != "Changed Name" {
		t.Fatalf("empty display name not refreshed: %+v", again.User)
	}
	if again.User["avatar"] != "https://me.example.com/custom.png" {
		t.Fatalf("avatar must stay customized: %+v", again.User)
	}
}

func Test_GoogleLogin_ConcurrentFirstLogin(t *testing.T) {
	env := newTestEnv(t)
	defer env.Close()

	tok := env.googleIDToken("race@example.com", "Race", "")
	body := `{"idToken":"` + tok + `"}`

	// all first logins for one email must land on the same account, whichever
	// insert wins the unique index
	const n = 8
	codes := make(chan int, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			codes <- env.do("POST", "/api/auth/google", body, "").Code
		}()
	}
	wg.Wait()
	close(codes)
	for code := range codes {
		if code != http.StatusOK {
			t.Fatalf("concurrent first login: %d", code)
		}
	}

	count, err := env.Store.DB.Collection("users").
		CountDocuments(env.Ctx, bson.M{"email": "race@example.com"})
	if err != nil {
		t.Fatal(err)
	}
	if count != 1 {
		t.Fatalf("accounts created: %d", count)
	}
}

func Test_UpdateMe_PartialFields(t *testing.T) {
	env := newTestEnv(t)
	defer env.Close()

	reg := env.register("profile@example.com", "somePass1")

	// only displayName changes; language/theme keep their defaults
	w := env.do("PATCH", "/api/users/me", `{"displayName":"Johnny"}`, reg.Token)
	if w.Code != http.StatusOK {
		t.Fatalf("patch: %d %s", w.Code, w.Body.String())
	}
	var u map[string]any
	decodeJSON(t, w, &u)
	if u["displayName"] != "Johnny" || u["language"] != "zh" || u["theme"] != "classic" {
		t.Fatalf("after patch: %+v", u)
	}

	// empty value present in the body is applied, not skipped
	w = env.do("PATCH", "/api/users/me", `{"displayName":"","theme":"dark"}`, reg.Token)
	if w.Code != http.StatusOK {
		t.Fatalf("patch2: %d %s", w.Code, w.Body.String())
	}
	decodeJSON(t, w, &u)
	if u["displayName"] != "" || u["theme"] != "dark" {
		t.Fatalf("after patch2: %+v", u)
	}
}

func Test_Health(t *testing.T) {
	env := newTestEnv(t)
	defer env.Close()

	w := env.do("GET", "/api/health", "", "")
	if w.Code != http.StatusOK {
		t.Fatalf("health: %d", w.Code)
	}
	var body map[string]bool
	decodeJSON(t, w, &body)
	if !body["ok"] {
		t.Fatalf("health body: %s", w.Body.String())
	}
}
