package services

import (
	"fmt"
	"math/rand"
	"strconv"
	"time"

	"github.com/vncsmyrnk/awardvote/internal/core/domain"
	"github.com/vncsmyrnk/awardvote/internal/core/ports"
)

const identitySuffixLen = 13

type identityService struct {
	now    func() time.Time
	random func() uint64
}

func NewIdentityService() ports.IdentityService {
	return &identityService{
		now:    time.Now,
		random: rand.Uint64,
	}
}

func (s *identityService) GetOrCreate(existing string) (string, bool) {
	if existing != "" && len(existing) <= domain.MaxVoterIDLength {
		return existing, false
	}
	return s.generate(), true
}

// generate builds "user-<unix ms>-<base36>". Unique in practice, not
// unguessable: the identity is a soft voter marker, not a credential.
func (s *identityService) generate() string {
	suffix := strconv.FormatUint(s.random(), 36)
	if len(suffix) > identitySuffixLen {
		suffix = suffix[:identitySuffixLen]
	}
	return fmt.Sprintf("user-%d-%s", s.now().UnixMilli(), suffix)
}
