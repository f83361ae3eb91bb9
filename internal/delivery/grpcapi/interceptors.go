package grpcapi

import (
	"context"
	"crypto/ed25519"
	"encoding/base64"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/LavaJover/shvark-escrow-service/internal/domain"
	"github.com/golang-jwt/jwt/v5"
	nanoid "github.com/jaevor/go-nanoid"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
)

const (
	authorizationHeader = "authorization"
	requestIDHeader     = "x-request-id"
	publicKeyClaim      = "pub"
)

// Claims - токен вызывающего: sub - аккаунт, pub - ed25519 ключ в base64
type Claims struct {
	PublicKey string `json:"pub,omitempty"`
	jwt.RegisteredClaims
}

type Authenticator struct {
	secret []byte
	issuer string
}

func NewAuthenticator(secret, issuer string) (*Authenticator, error) {
	if secret == "" {
		return nil, errors.New("jwt secret is empty")
	}
	return &Authenticator{secret: []byte(secret), issuer: issuer}, nil
}

func (a *Authenticator) Parse(tokenString string) (domain.Principal, error) {
	opts := []jwt.ParserOption{jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()})}
	if a.issuer != "" {
		opts = append(opts, jwt.WithIssuer(a.issuer))
	}
	claims := &Claims{}
	_, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		return a.secret, nil
	}, opts...)
	if err != nil {
		return domain.Principal{}, fmt.Errorf("%w: %v", domain.ErrUnauthenticated, err)
	}
	if claims.Subject == "" {
		return domain.Principal{}, fmt.Errorf("%w: empty subject", domain.ErrUnauthenticated)
	}
	principal := domain.Principal{ID: claims.Subject}
	if claims.PublicKey != "" {
		key, err := base64.StdEncoding.DecodeString(claims.PublicKey)
		if err != nil || len(key) != ed25519.PublicKeySize {
			return domain.Principal{}, fmt.Errorf("%w: malformed %s claim", domain.ErrUnauthenticated, publicKeyClaim)
		}
		principal.PublicKey = key
	}
	return principal, nil
}

// Issue подписывает токен для аккаунта, используется в тестах и утилитах
func (a *Authenticator) Issue(subject string, publicKey ed25519.PublicKey, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			Issuer:    a.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	if len(publicKey) > 0 {
		claims.PublicKey = base64.StdEncoding.EncodeToString(publicKey)
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(a.secret)
}

// AuthInterceptor кладет Principal в контекст. Запрос без токена проходит
// анонимно, методы с вызывающим отклоняют его сами.
func AuthInterceptor(auth *Authenticator) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
		md, _ := metadata.FromIncomingContext(ctx)
		values := md.Get(authorizationHeader)
		if len(values) == 0 {
			return handler(ctx, req)
		}
		token, ok := strings.CutPrefix(values[0], "Bearer ")
		if !ok {
			return nil, status.Error(codes.Unauthenticated, "authorization must be a bearer token")
		}
		principal, err := auth.Parse(token)
		if err != nil {
			return nil, status.Error(codes.Unauthenticated, err.Error())
		}
		return handler(domain.WithPrincipal(ctx, principal), req)
	}
}

// LoggingInterceptor присваивает запросу request id и логирует результат
func LoggingInterceptor(logger *slog.Logger) (grpc.UnaryServerInterceptor, error) {
	idGenerator, err := nanoid.Standard(15)
	if err != nil {
		return nil, err
	}
	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
		start := time.Now()
		requestID := ""
		if md, ok := metadata.FromIncomingContext(ctx); ok {
			if values := md.Get(requestIDHeader); len(values) > 0 {
				requestID = values[0]
			}
		}
		if requestID == "" {
			requestID = idGenerator()
		}
		_ = grpc.SetHeader(ctx, metadata.Pairs(requestIDHeader, requestID))

		resp, err := handler(ctx, req)

		code := status.Code(err)
		attrs := []any{
			"method", info.FullMethod,
			"request_id", requestID,
			"code", code.String(),
			"duration", time.Since(start),
		}
		switch code {
		case codes.OK:
			logger.Debug("grpc request", attrs...)
		case codes.Internal, codes.Unknown:
			logger.Error("grpc request failed", append(attrs, "error", err)...)
		default:
			logger.Info("grpc request rejected", append(attrs, "error", err)...)
		}
		return resp, err
	}, nil
}
