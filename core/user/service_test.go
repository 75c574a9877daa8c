package user

import (
	"context"
	"strconv"
	"testing"
	"time"

	"github.com/pkg/errors"

	"github.com/Eordinary01/View-Assignment/core"
)

type fakeRepo struct {
	seq   int
	users map[string]User // keyed by ID
}

var _ Repository = (*fakeRepo)(nil)

func newFakeRepo() *fakeRepo {
	return &fakeRepo{users: make(map[string]User)}
}

func (r *fakeRepo) CreateUser(_ context.Context, usr User) (User, error) {
	for _, u := range r.users {
		if u.Email == usr.Email {
			return User{}, ErrEmailExists
		}
	}
	r.seq++
	usr.ID = strconv.Itoa(r.seq)
	r.users[usr.ID] = usr
	return usr, nil
}

func (r *fakeRepo) GetUserByID(_ context.Context, id string) (User, error) {
	if usr, ok := r.users[id]; ok {
		return usr, nil
	}
	return User{}, ErrNotFound
}

func (r *fakeRepo) GetUserByEmail(_ context.Context, email string) (User, error) {
	for _, usr := range r.users {
		if usr.Email == email {
			return usr, nil
		}
	}
	return User{}, ErrNotFound
}

func (r *fakeRepo) UpdateUser(_ context.Context, usr User) (User, error) {
	if _, ok := r.users[usr.ID]; !ok {
		return User{}, ErrNotFound
	}
	usr.UpdatedAt = time.Now().UTC()
	r.users[usr.ID] = usr
	return usr, nil
}

type recordingMailService struct {
	messages []*core.EmailMessage
}

func (svc *recordingMailService) SendMessages(messages ...*core.EmailMessage) {
	svc.messages = append(svc.messages, messages...)
}

func newTestService() (*Service, *fakeRepo, *recordingMailService) {
	repo := newFakeRepo()
	mailSvc := new(recordingMailService)
	conf := &core.Config{
		AppName:       "ViewAssignment",
		AdminEmail:    "root@viewassignment.test",
		AdminPassword: "RootPass!42",
	}
	return NewService(repo, mailSvc, conf), repo, mailSvc
}

func TestUser_SetPassword(t *testing.T) {
	var usr User
	if err := usr.SetPassword("s3cret"); err != nil {
		t.Fatalf("SetPassword(): %v", err)
	}
	if len(usr.PasswordHash) == 0 {
		t.Fatal("SetPassword() left an empty hash")
	}
	if string(usr.PasswordHash) == "s3cret" {
		t.Fatal("SetPassword() stored the raw password")
	}
	if err := usr.CheckPassword("s3cret"); err != nil {
		t.Errorf("CheckPassword(correct): %v", err)
	}
	if err := usr.CheckPassword("wrong"); err == nil {
		t.Error("CheckPassword(wrong) succeeded")
	}
}

func TestService_Signup(t *testing.T) {
	ctx := context.Background()

	t.Run("defaults to student", func(t *testing.T) {
		svc, _, mailSvc := newTestService()

		usr, err := svc.Signup(ctx, NewUser{Name: "JOHN DOE", Email: "JOHN@TEST.CD", Password: "p", College: "MIT"})
		if err != nil {
			t.Fatalf("Signup(): %v", err)
		}
		if usr.Role != RoleStudent {
			t.Errorf("role = %q; want %q", usr.Role, RoleStudent)
		}
		if usr.ID == "" {
			t.Error("empty ID")
		}
		if err = usr.CheckPassword("p"); err != nil {
			t.Errorf("CheckPassword(): %v", err)
		}
		if len(mailSvc.messages) != 1 {
			t.Errorf("welcome emails sent = %d; want 1", len(mailSvc.messages))
		}
	})

	t.Run("admin pair promotes", func(t *testing.T) {
		svc, _, _ := newTestService()

		usr, err := svc.Signup(ctx, NewUser{Name: "BOSS", Email: "ROOT@VIEWASSIGNMENT.TEST", Password: "RootPass!42", College: "HQ"})
		if err != nil {
			t.Fatalf("Signup(): %v", err)
		}
		if usr.Role != RoleAdmin {
			t.Errorf("role = %q; want %q", usr.Role, RoleAdmin)
		}
	})

	t.Run("admin email alone does not promote", func(t *testing.T) {
		svc, _, _ := newTestService()

		usr, err := svc.Signup(ctx, NewUser{Name: "PRETENDER", Email: "ROOT@VIEWASSIGNMENT.TEST", Password: "nope", College: "HQ"})
		if err != nil {
			t.Fatalf("Signup(): %v", err)
		}
		if usr.Role != RoleStudent {
			t.Errorf("role = %q; want %q", usr.Role, RoleStudent)
		}
	})

	t.Run("duplicate email", func(t *testing.T) {
		svc, _, mailSvc := newTestService()

		nu := NewUser{Name: "JOHN DOE", Email: "JOHN@TEST.CD", Password: "p", College: "MIT"}
		if _, err := svc.Signup(ctx, nu); err != nil {
			t.Fatalf("Signup(): %v", err)
		}
		_, err := svc.Signup(ctx, nu)
		var vErr *core.ValidationError
		if !errors.As(err, &vErr) {
			t.Fatalf("Signup() error = %v; want a validation error", err)
		}
		if len(mailSvc.messages) != 1 {
			t.Errorf("welcome emails sent = %d; want 1 (none for the rejected signup)", len(mailSvc.messages))
		}
	})
}

func TestService_Authenticate(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newTestService()

	if _, err := svc.Signup(ctx, NewUser{Name: "HERO", Email: "HERO@TEST.CD", Password: "s3cret", College: "MIT"}); err != nil {
		t.Fatalf("Signup(): %v", err)
	}

	t.Run("email case-insensitive", func(t *testing.T) {
		usr, err := svc.Authenticate(ctx, " Hero@Test.cd ", "s3cret")
		if err != nil {
			t.Fatalf("Authenticate(): %v", err)
		}
		if usr.Email != "HERO@TEST.CD" {
			t.Errorf("email = %q", usr.Email)
		}
	})

	t.Run("wrong password", func(t *testing.T) {
		if _, err := svc.Authenticate(ctx, "hero@test.cd", "wrong"); err != ErrInvalidCredentials {
			t.Errorf("Authenticate() error = %v; want ErrInvalidCredentials", err)
		}
	})

	t.Run("unknown email", func(t *testing.T) {
		// indistinguishable from a wrong password
		if _, err := svc.Authenticate(ctx, "ghost@test.cd", "s3cret"); err != ErrInvalidCredentials {
			t.Errorf("Authenticate() error = %v; want ErrInvalidCredentials", err)
		}
	})
}
