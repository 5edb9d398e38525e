package gateway

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
)

// ImageOwner selects the game or user image resource.
type ImageOwner string

const (
	GameImage ImageOwner = "games"
	UserImage ImageOwner = "users"
)

// Image is a fetched binary image resource.
type Image struct {
	ContentType string
	Data        []byte
}

const maxImageSize = 5 << 20

func imagePath(owner ImageOwner, id uint) string {
	return fmt.Sprintf("/%s/%d/image", owner, id)
}

func (c *Client) GetImage(ctx context.Context, owner ImageOwner, id uint) (*Image, error) {
	resp, err := c.send(ctx, request{
		method:   http.MethodGet,
		path:     imagePath(owner, id),
		endpoint: "/" + string(owner) + "/:id/image",
	})
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxImageSize))
	if err != nil {
		return nil, fmt.Errorf("failed to read image: %w", err)
	}
	return &Image{ContentType: resp.Header.Get("Content-Type"), Data: data}, nil
}

func (c *Client) PutImage(ctx context.Context, token string, owner ImageOwner, id uint, img Image) error {
	return c.do(ctx, request{
		method:      http.MethodPut,
		path:        imagePath(owner, id),
		endpoint:    "/" + string(owner) + "/:id/image",
		token:       token,
		rawBody:     bytes.NewReader(img.Data),
		contentType: img.ContentType,
	}, nil)
}

func (c *Client) DeleteImage(ctx context.Context, token string, owner ImageOwner, id uint) error {
	return c.do(ctx, request{
		method:   http.MethodDelete,
		path:     imagePath(owner, id),
		endpoint: "/" + string(owner) + "/:id/image",
		token:    token,
	}, nil)
}
