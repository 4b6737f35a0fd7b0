package s3

import (
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/s3"
	s3types "github.com/aws/aws-sdk-go-v2/service/s3/types"
)

func TestApplyPrefix(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		prefix string
		key    string
		want   string
	}{
		{name: "no prefix", prefix: "", key: "user/file.pdf", want: "user/file.pdf"},
		{name: "simple prefix", prefix: "root", key: "user/file.pdf", want: "root/user/file.pdf"},
		{name: "prefix trailing slash", prefix: "root/", key: "user/file.pdf", want: "root/user/file.pdf"},
		{name: "prefix and key slashes", prefix: "/root/", key: "/user/file.pdf", want: "root/user/file.pdf"},
		{name: "nested prefix", prefix: "root/sub", key: "user/file.pdf", want: "root/sub/user/file.pdf"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := applyPrefix(tt.prefix, tt.key); got != tt.want {
				t.Fatalf("applyPrefix(%q, %q) = %q, want %q", tt.prefix, tt.key, got, tt.want)
			}
		})
	}
}

func TestApplyEncryptionSkipsCompatibleEndpoints(t *testing.T) {
	t.Parallel()

	aws := &Store{kmsKeyID: "kms-1"}
	in := &s3.PutObjectInput{}
	aws.applyEncryption(in)
	if in.ServerSideEncryption != s3types.ServerSideEncryptionAwsKms || in.SSEKMSKeyId == nil {
		t.Fatalf("expected kms encryption, got %q", in.ServerSideEncryption)
	}

	plain := &Store{}
	in = &s3.PutObjectInput{}
	plain.applyEncryption(in)
	if in.ServerSideEncryption != s3types.ServerSideEncryptionAes256 {
		t.Fatalf("expected AES256, got %q", in.ServerSideEncryption)
	}

	r2 := &Store{compatible: true, kmsKeyID: "kms-1"}
	in = &s3.PutObjectInput{}
	r2.applyEncryption(in)
	if in.ServerSideEncryption != "" || in.SSEKMSKeyId != nil {
		t.Fatalf("expected no SSE headers for compatible endpoint")
	}
}
