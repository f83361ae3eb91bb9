package grpcapi

import (
	"context"
	"errors"

	"github.com/LavaJover/shvark-escrow-service/internal/domain"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

var errorCodes = []struct {
	code codes.Code
	errs []error
}{
	{codes.Unauthenticated, []error{domain.ErrUnauthenticated}},
	{codes.PermissionDenied, []error{
		domain.ErrUnauthorized,
		domain.ErrUnauthorizedCancel,
		domain.ErrNotPanelMember,
		domain.ErrNotDaoMember,
	}},
	{codes.NotFound, []error{
		domain.ErrEscrowNotFound,
		domain.ErrDisputeNotFound,
		domain.ErrPanelNotFound,
		domain.ErrProposalNotFound,
		domain.ErrMemberNotFound,
		domain.ErrHoldNotFound,
	}},
	{codes.AlreadyExists, []error{
		domain.ErrEscrowAlreadyExists,
		domain.ErrSignatureAlreadySubmitted,
		domain.ErrAlreadyDelivered,
		domain.ErrAlreadyDaoMember,
		domain.ErrAlreadyInitialized,
		domain.ErrAlreadyVoted,
		domain.ErrSeedAlreadyUsed,
	}},
	{codes.InvalidArgument, []error{
		domain.ErrAmountTooSmall,
		domain.ErrInvalidFreelancer,
		domain.ErrInvalidSignature,
		domain.ErrInvalidParties,
		domain.ErrUriTooLong,
		domain.ErrInvalidReason,
		domain.ErrInvalidChoice,
		domain.ErrInsufficientDisputeFee,
		domain.ErrDuplicatePanelMembers,
		domain.ErrInvalidPanelSize,
		domain.ErrInvalidQuorum,
		domain.ErrInvalidVoteEvidence,
		domain.ErrInvalidSplit,
		domain.ErrInvalidWindow,
		domain.ErrInvalidTitleHash,
		domain.ErrInvalidProposalKind,
		domain.ErrInvalidTreasury,
		domain.ErrInvalidAmount,
		domain.ErrHoldMismatch,
	}},
	{codes.FailedPrecondition, []error{
		domain.ErrInvalidState,
		domain.ErrArbitrationNotConfigured,
		domain.ErrInvalidDisputeState,
		domain.ErrDisputeExpired,
		domain.ErrNoVoteRequired,
		domain.ErrRequiresDaoVote,
		domain.ErrQuorumNotReached,
		domain.ErrDaoNotInitialized,
		domain.ErrPaused,
		domain.ErrProposalNotActive,
		domain.ErrVotingWindowClosed,
		domain.ErrVotingStillActive,
		domain.ErrCancelWindowClosed,
		domain.ErrProposalNotPassed,
		domain.ErrExecutionDelayNotMet,
		domain.ErrInsufficientFunds,
	}},
}

// toStatus переводит доменные ошибки в gRPC-коды
func toStatus(err error) error {
	if err == nil {
		return nil
	}
	if _, ok := status.FromError(err); ok {
		return err
	}
	for _, group := range errorCodes {
		for _, target := range group.errs {
			if errors.Is(err, target) {
				return status.Error(group.code, err.Error())
			}
		}
	}
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return status.Error(codes.DeadlineExceeded, err.Error())
	case errors.Is(err, context.Canceled):
		return status.Error(codes.Canceled, err.Error())
	}
	return status.Errorf(codes.Internal, "internal error: %v", err)
}
