// Package inmem provides map-backed repositories for tests and local hacking.
package inmem

import (
	"strconv"
	"sync"

	"github.com/Eordinary01/View-Assignment/core/assignment"
	"github.com/Eordinary01/View-Assignment/core/user"
)

type (
	DB struct {
		user       *userTable
		assignment *assignmentTable
	}

	userTable struct {
		sync.RWMutex
		seq   int
		table map[string]*user.User
	}

	assignmentTable struct {
		sync.RWMutex
		seq   int
		table map[string]*assignment.Assignment
	}
)

func Open() *DB {
	return &DB{
		user:       &userTable{table: make(map[string]*user.User)},
		assignment: &assignmentTable{table: make(map[string]*assignment.Assignment)},
	}
}

func (t *userTable) nextID() string {
	t.seq++
	return strconv.Itoa(t.seq)
}

func (t *assignmentTable) nextID() string {
	t.seq++
	return strconv.Itoa(t.seq)
}
