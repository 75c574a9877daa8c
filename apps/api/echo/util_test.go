package echoapi

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"reflect"
	"testing"
	"time"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"

	"github.com/Eordinary01/View-Assignment/core"
	"github.com/Eordinary01/View-Assignment/core/assignment"
	"github.com/Eordinary01/View-Assignment/core/user"
	emailsvc "github.com/Eordinary01/View-Assignment/services/email"
	"github.com/Eordinary01/View-Assignment/storage/blob"
	"github.com/Eordinary01/View-Assignment/storage/database/inmem"
)

var (
	errMissingToken = httpErr{Error: "No token provided"}

	// content sniffed as application/pdf and image/png respectively
	pdfBytes = []byte("%PDF-1.4\n1 0 obj\n<< /Type /Catalog >>\nendobj\ntrailer\n<< >>\n%%EOF\n")
	pngBytes = []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n', 0, 0, 0, 13, 'I', 'H', 'D', 'R', 0, 0, 0, 1, 0, 0, 0, 1}
)

type testEnv struct {
	server     Server
	conf       *core.Config
	usrRepo    user.Repository
	assignRepo assignment.Repository
	usrSvc     *user.Service
	blobs      *blob.Store
	uploadDir  string
}

type nopLogger struct{}

func (nopLogger) Debug(string, ...interface{}) {}
func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}
func (nopLogger) Fatal(string, ...interface{}) {}

func testConfig(uploadDir string) *core.Config {
	return &core.Config{
		TestMode:         true,
		Env:              "TEST",
		AppName:          "ViewAssignment",
		SecretKey:        "test-secret-key",
		AdminEmail:       "root@viewassignment.test",
		AdminPassword:    "RootPass!42",
		DefaultFromEmail: "noreply@localhost",
		Server: core.ServerConfig{
			JWTExpirationDelta:       7 * 24 * time.Hour,
			JWTSignupExpirationDelta: time.Hour,
		},
		Upload: core.UploadConfig{
			Dir:      uploadDir,
			MaxBytes: 1 << 10, // keep the size-rejection test cheap
		},
	}
}

func setup(t *testing.T) *testEnv {
	t.Helper()

	uploadDir := t.TempDir()
	conf := testConfig(uploadDir)

	// set up DB & repos
	db := inmem.Open()
	usrRepo := inmem.NewUserRepository(db)
	assignRepo := inmem.NewAssignmentRepository(db)

	blobs, err := blob.NewStore(uploadDir, conf.Upload.MaxBytes)
	if err != nil {
		t.Fatalf("blob.NewStore(): %v", err)
	}

	// set up services
	mailSvc := emailsvc.NewConsoleServiceMock(conf)
	usrSvc := user.NewService(usrRepo, mailSvc, conf)
	assignSvc := assignment.NewService(assignRepo, blobs, nopLogger{})

	validate := validator.New()
	translator := newTestTranslator()
	core.InitValidators(validate, translator)

	// set up server
	server := NewServer(ServerDeps{
		Conf:          conf,
		Logger:        nopLogger{},
		UserSvc:       usrSvc,
		AssignmentSvc: assignSvc,
		Validate:      validate,
		Translator:    translator,
	})

	return &testEnv{
		server:     server,
		conf:       conf,
		usrRepo:    usrRepo,
		assignRepo: assignRepo,
		usrSvc:     usrSvc,
		blobs:      blobs,
		uploadDir:  uploadDir,
	}
}

func newTestTranslator() ut.Translator {
	_en := en.New()
	uni := ut.New(_en, _en)
	translator, _ := uni.GetTranslator("en")
	return translator
}

type httpErr struct {
	Error string `json:"error"`
}

type httpTest struct {
	name     string
	method   string
	path     string
	body     []byte
	token    string
	wantCode int
	wantData []byte
}

func newAuthRequest(method, path, token string, data ...[]byte) (*http.Request, *httptest.ResponseRecorder) {
	var body bytes.Buffer
	if len(data) > 0 {
		body.Write(data[0])
	}
	req := httptest.NewRequest(method, path, &body)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	return req, rec
}

func newRequest(method, path string, data ...[]byte) (*http.Request, *httptest.ResponseRecorder) {
	return newAuthRequest(method, path, "", data...)
}

func newUploadRequest(t *testing.T, path, token string, fields map[string]string, fileName string, fileContent []byte) (*http.Request, *httptest.ResponseRecorder) {
	t.Helper()

	body := new(bytes.Buffer)
	w := multipart.NewWriter(body)
	for k, v := range fields {
		if err := w.WriteField(k, v); err != nil {
			t.Fatalf("WriteField(%s): %v", k, err)
		}
	}
	if fileName != "" {
		fw, err := w.CreateFormFile("file", fileName)
		if err != nil {
			t.Fatalf("CreateFormFile(): %v", err)
		}
		if _, err = fw.Write(fileContent); err != nil {
			t.Fatalf("writing form file: %v", err)
		}
	}
	if err := w.Close(); err != nil {
		t.Fatalf("closing multipart writer: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, path, body)
	req.Header.Set("Content-Type", w.FormDataContentType())
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	return req, rec
}

func getToken(t *testing.T, conf *core.Config, usr user.User) string {
	t.Helper()

	token, err := GenerateToken(conf, GetUserClaims(conf, usr, time.Hour))
	if err != nil {
		t.Fatalf("getToken(): %v", err)
	}
	return token
}

func createUser(t *testing.T, repo user.Repository, name, email, pwd, college, role string) user.User {
	t.Helper()

	now := time.Now().UTC()
	usr := user.User{
		Name:      core.CleanString(name, true),
		Email:     core.CleanString(email, true),
		College:   core.CleanString(college, true),
		Role:      role,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := usr.SetPassword(pwd); err != nil {
		t.Fatalf("SetPassword(): %v", err)
	}
	usr, err := repo.CreateUser(context.Background(), usr)
	if err != nil {
		t.Fatalf("CreateUser(): %v", err)
	}
	return usr
}

func createAssignment(t *testing.T, repo assignment.Repository, course, branch, year, subject, college, uploadedBy, fileName string) assignment.Assignment {
	t.Helper()

	now := time.Now().UTC()
	a, err := repo.CreateAssignment(context.Background(), assignment.Assignment{
		Course:     core.CleanString(course, true),
		Branch:     core.CleanString(branch, true),
		Year:       core.CleanString(year, true),
		Subject:    core.CleanString(subject, true),
		College:    core.CleanString(college, true),
		UploadedBy: uploadedBy,
		FileName:   fileName,
		CreatedAt:  now,
		UpdatedAt:  now,
	})
	if err != nil {
		t.Fatalf("CreateAssignment(): %v", err)
	}
	return a
}

func marshallObj(t *testing.T, obj interface{}) []byte {
	t.Helper()

	data, err := json.Marshal(obj)
	if err != nil {
		t.Fatalf("marshallObj(): %v", err)
	}
	return data
}

func marshallList(t *testing.T, objs ...interface{}) []byte {
	t.Helper()

	if objs == nil {
		objs = []interface{}{}
	}
	data, err := json.Marshal(objs)
	if err != nil {
		t.Fatalf("marshallList(): %v", err)
	}
	return data
}

func jsonBytesEqual(t *testing.T, b1, b2 []byte) (bool, error) {
	t.Helper()

	var j1, j2 interface{}
	if err := json.Unmarshal(b1, &j1); err != nil {
		return false, err
	}
	if err := json.Unmarshal(b2, &j2); err != nil {
		return false, err
	}
	if reflect.DeepEqual(j1, j2) {
		return true, nil
	}
	if j1 == nil || j2 == nil {
		return false, nil
	}
	return assert.ObjectsAreEqual(j1, j2), nil
}

func checkCodeAndData(t *testing.T, tt httpTest, rec *httptest.ResponseRecorder) {
	t.Helper()

	if rec.Code != tt.wantCode {
		t.Errorf("failed! code = %v; wantCode %v", rec.Code, tt.wantCode)
	}
	if tt.wantData == nil {
		return
	}
	ok, err := jsonBytesEqual(t, rec.Body.Bytes(), tt.wantData)
	if err != nil {
		t.Errorf("jsonBytesEqual() failed to compare; err %v", err)
	}
	if !ok {
		t.Errorf("failed! data = %v; wantData %v", rec.Body.String(), string(tt.wantData))
	}
}
