// Comfyscan locates and reconstructs AI-image-generation metadata embedded in
// image and video containers. It recovers ComfyUI workflow graphs and A1111
// parameter records from PNG, JPEG, WebP and video files, and can synthesize
// a complete workflow graph from a flat A1111 parameter record.
package comfyscan
