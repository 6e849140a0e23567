package cleaning

import (
	"fmt"

	"github.com/assist-by/pricecleaner/internal/logger"
)

// ConfigStore는 키 단위로 설정 값을 조회하는 저장소입니다.
// 값이 없으면 false를 반환합니다.
type ConfigStore interface {
	GetElement(key string) (interface{}, bool)
}

// Resolver는 가격 정제 설정을 결정합니다
type Resolver struct {
	store ConfigStore
	log   *logger.Entry
}

// NewResolver는 새로운 Resolver를 생성합니다
func NewResolver(store ConfigStore, log *logger.Entry) *Resolver {
	if log == nil {
		log = logger.Discard()
	}
	return &Resolver{
		store: store,
		log:   log.WithComponent("cleaning"),
	}
}

// Resolve는 override가 있으면 그대로 반환하고, 없으면 설정 저장소에서 여섯 항목을 읽습니다.
// 하나라도 없으면 critical 로그를 남기고 ErrMissingConfig를 반환합니다.
func (r *Resolver) Resolve(override *FilterConfig) (FilterConfig, error) {
	if override != nil {
		return *override, nil
	}

	raw := make([]interface{}, len(filterFields))
	var missing []string
	for i, f := range filterFields {
		v, ok := r.store.GetElement(f.key)
		if !ok {
			missing = append(missing, f.key)
			continue
		}
		raw[i] = v
	}

	if len(missing) > 0 {
		r.log.WithFields(logger.Fields{"missing": missing}).Critical(missingConfigMessage)
		return FilterConfig{}, fmt.Errorf("%w: %s: %v", ErrMissingConfig, missingConfigMessage, missing)
	}

	var cfg FilterConfig
	for i, f := range filterFields {
		v, err := f.decode(raw[i])
		if err != nil {
			r.log.WithError(err).Error("가격 정제 설정 값 변환 실패")
			return FilterConfig{}, err
		}
		f.set(&cfg, v)
	}

	return cfg, nil
}
