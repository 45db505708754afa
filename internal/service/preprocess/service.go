package preprocess

import "context"

// CompressedImage 壓縮後的暫存檔，由呼叫端負責刪除
type CompressedImage struct {
	Path   string
	Size   int64
	Width  int
	Height int
}

type Service interface {
	// Compress 讀取 srcPath，縮到最大寬度（只縮不放）並以 JPEG 重新編碼成新檔；不會改動原檔
	Compress(ctx context.Context, srcPath string) (*CompressedImage, error)
}
