// Package seed reads YAML datasets for preloading a store.
//
// A dataset lists rows per entity with their ids and foreign keys:
//
//	departments:
//	  - {id: 1, name: CS}
//	teachers:
//	  - {id: 1, email: ada@x.com, fullName: Ada, type: FULLTIME}
//	courses:
//	  - {id: 1, code: CS101, title: Intro, teacher: 1, dept: 1}
//	students:
//	  - {id: 1, email: a@x.com, fullName: A, dept: 1, enrolled: true}
package seed

import (
	"context"
	"io"
	"os"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	model "github.com/hanpama/schoolgraph/internal/model"
)

// Seeder is a store that accepts a dataset.
type Seeder interface {
	Seed(ctx context.Context, data model.Dataset) error
}

type document struct {
	Departments []department `yaml:"departments"`
	Teachers    []teacher    `yaml:"teachers"`
	Courses     []course     `yaml:"courses"`
	Students    []student    `yaml:"students"`
}

type department struct {
	ID          int     `yaml:"id"`
	Name        string  `yaml:"name"`
	Description *string `yaml:"description"`
}

type teacher struct {
	ID       int     `yaml:"id"`
	Email    string  `yaml:"email"`
	FullName string  `yaml:"fullName"`
	Type     *string `yaml:"type"`
}

type course struct {
	ID          int     `yaml:"id"`
	Code        string  `yaml:"code"`
	Title       string  `yaml:"title"`
	Description *string `yaml:"description"`
	Teacher     *int    `yaml:"teacher"`
	Dept        *int    `yaml:"dept"`
}

type student struct {
	ID       int    `yaml:"id"`
	Email    string `yaml:"email"`
	FullName string `yaml:"fullName"`
	Enrolled *bool  `yaml:"enrolled"`
	Dept     *int   `yaml:"dept"`
}

// Parse decodes a dataset. Unknown keys are rejected.
func Parse(r io.Reader) (model.Dataset, error) {
	var doc document
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&doc); err != nil && err != io.EOF {
		return model.Dataset{}, errors.Wrap(err, "decoding dataset")
	}

	var data model.Dataset
	for i, d := range doc.Departments {
		if d.Name == "" {
			return model.Dataset{}, errors.Errorf("departments[%d]: name is required", i)
		}
		data.Departments = append(data.Departments, model.Department{ID: d.ID, Name: d.Name, Description: d.Description})
	}
	for i, t := range doc.Teachers {
		if t.Email == "" || t.FullName == "" {
			return model.Dataset{}, errors.Errorf("teachers[%d]: email and fullName are required", i)
		}
		row := model.Teacher{ID: t.ID, Email: t.Email, FullName: t.FullName}
		if t.Type != nil {
			typ := model.TeacherType(*t.Type)
			if !typ.Valid() {
				return model.Dataset{}, errors.Errorf("teachers[%d]: unknown type %q", i, *t.Type)
			}
			row.Type = &typ
		}
		data.Teachers = append(data.Teachers, row)
	}
	for i, c := range doc.Courses {
		if c.Code == "" || c.Title == "" {
			return model.Dataset{}, errors.Errorf("courses[%d]: code and title are required", i)
		}
		data.Courses = append(data.Courses, model.Course{
			ID:          c.ID,
			Code:        c.Code,
			Title:       c.Title,
			Description: c.Description,
			TeacherID:   c.Teacher,
			DeptID:      c.Dept,
		})
	}
	for i, s := range doc.Students {
		if s.Email == "" || s.FullName == "" {
			return model.Dataset{}, errors.Errorf("students[%d]: email and fullName are required", i)
		}
		data.Students = append(data.Students, model.Student{
			ID:       s.ID,
			Email:    s.Email,
			FullName: s.FullName,
			Enrolled: s.Enrolled,
			DeptID:   s.Dept,
		})
	}
	return data, nil
}

// LoadFile parses the dataset at path and seeds it into dst.
func LoadFile(ctx context.Context, dst Seeder, path string) (model.Dataset, error) {
	f, err := os.Open(path)
	if err != nil {
		return model.Dataset{}, errors.Wrap(err, "opening dataset")
	}
	defer f.Close()

	data, err := Parse(f)
	if err != nil {
		return model.Dataset{}, errors.Wrapf(err, "%s", path)
	}
	if err := dst.Seed(ctx, data); err != nil {
		return model.Dataset{}, err
	}
	return data, nil
}
