package cards

import (
	"context"
	"fmt"
	"image"
	_ "image/jpeg" // 注册 JPEG 解码器
	_ "image/png"  // 注册 PNG 解码器
	"io"
	"log"
	"os"

	"golang.org/x/sync/errgroup"
)

// maxConcurrentDecodes 同时解码的图片数量上限
const maxConcurrentDecodes = 4

// Opener 按路径打开图片资源
type Opener func(path string) (io.ReadCloser, error)

// FileOpener 从磁盘打开文件
func FileOpener(path string) (io.ReadCloser, error) {
	return os.Open(path)
}

// LoadImages 并发解码所有带 ImagePath 的卡片图片
//
// 单张图片失败只记录日志，卡片保留为无图状态；只有 ctx 被取消时才返回错误。
// 返回的切片是新副本，输入切片不会被修改。
func LoadImages(ctx context.Context, list []Card, open Opener) ([]Card, error) {
	result := make([]Card, len(list))
	copy(result, list)

	if open == nil {
		open = FileOpener
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(maxConcurrentDecodes)

	for i := range result {
		if result[i].ImagePath == "" {
			continue
		}
		i := i
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			img, err := decodeImage(result[i].ImagePath, open)
			if err != nil {
				log.Printf("[Cards] Warning: %v (card %q keeps no image)", err, result[i].Title)
				return nil
			}
			result[i].Image = img
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("card image loading cancelled: %w", err)
	}
	return result, nil
}

// decodeImage 打开并解码一张图片
func decodeImage(path string, open Opener) (image.Image, error) {
	r, err := open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open image %s: %w", path, err)
	}
	defer r.Close()

	img, _, err := image.Decode(r)
	if err != nil {
		return nil, fmt.Errorf("failed to decode image %s: %w", path, err)
	}
	return img, nil
}
