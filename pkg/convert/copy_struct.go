package convert

import (
	"github.com/jinzhu/copier"
	"github.com/pkg/errors"
)

// StructAssign copies the same-named fields of src into dst
// StructAssign 把 src 与 dst 的同名字段复制到 dst 中
func StructAssign[T any](src any, dst *T) (*T, error) {
	if err := copier.Copy(dst, src); err != nil {
		return nil, errors.Wrap(err, "struct assign")
	}
	return dst, nil
}
