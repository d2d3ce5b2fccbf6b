package retouch

import "context"

// Transformer is an external image-to-image collaborator, such as a model
// that removes the background or improves quality. It receives the current
// image as PNG and returns encoded image bytes in any decodable format.
type Transformer interface {
	Transform(ctx context.Context, image []byte) ([]byte, error)
}

// TransformerFunc adapts an ordinary function to a Transformer.
type TransformerFunc func(ctx context.Context, image []byte) ([]byte, error)

// Transform calls f(ctx, image).
func (f TransformerFunc) Transform(ctx context.Context, image []byte) ([]byte, error) {
	return f(ctx, image)
}
