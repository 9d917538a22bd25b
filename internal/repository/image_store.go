package repository

import "context"

// ImageRef points to a stored photo. ID is what Delete expects.
type ImageRef struct {
	URL string
	ID  string
}

// 商品写真の保存先。Deleteの失敗は呼び出し側で無視
type ImageStore interface {
	Upload(ctx context.Context, name string, data []byte) (ImageRef, error)
	Delete(ctx context.Context, id string) error
}
