package memstore

import "github.com/pkg/errors"

func errUnique(table, column string) error {
	return errors.Errorf("unique constraint failed on %s.%s", table, column)
}

func errDuplicateID(table string, id int) error {
	return errors.Errorf("duplicate id %d in %s", id, table)
}
