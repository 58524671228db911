package repo

import (
	"context"

	"gorm.io/gorm"

	"market-thrifty/internal/domain"
)

// notPaid 老数据可能没有 paid 列值，NULL 视为未付款
const notPaid = "(paid IS NULL OR paid = ?)"

type ListingRepo struct{ db *gorm.DB }

func NewListingRepo(db *gorm.DB) *ListingRepo { return &ListingRepo{db: db} }

func (r *ListingRepo) Create(ctx context.Context, l *domain.Listing) error {
	return persistence("create listing", r.db.WithContext(ctx).Create(l).Error)
}

func (r *ListingRepo) FindByID(ctx context.Context, id string) (*domain.Listing, error) {
	var l domain.Listing
	err := r.db.WithContext(ctx).First(&l, "id = ?", id).Error
	if notFound(err) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, persistence("find listing", err)
	}
	return &l, nil
}

func (r *ListingRepo) ListAvailable(ctx context.Context, category string) ([]domain.Listing, error) {
	return r.find(ctx, "list available",
		r.db.Where("category_name = ?", category).Where(notPaid, false))
}

func (r *ListingRepo) ListAdvertised(ctx context.Context) ([]domain.Listing, error) {
	return r.find(ctx, "list advertised",
		r.db.Where("advertised = ?", true).Where(notPaid, false))
}

// ListReported 不过滤 paid，管理员要能看到已售出的被举报商品
func (r *ListingRepo) ListReported(ctx context.Context) ([]domain.Listing, error) {
	return r.find(ctx, "list reported", r.db.Where("reported = ?", true))
}

func (r *ListingRepo) ListBySeller(ctx context.Context, sellerEmail string) ([]domain.Listing, error) {
	return r.find(ctx, "list by seller", r.db.Where("seller_email = ?", sellerEmail))
}

func (r *ListingRepo) find(ctx context.Context, op string, q *gorm.DB) ([]domain.Listing, error) {
	out := []domain.Listing{}
	if err := q.WithContext(ctx).Order("created_at desc").Find(&out).Error; err != nil {
		return nil, persistence(op, err)
	}
	return out, nil
}

// MarkAdvertised sellerEmail 为空表示不限卖家（管理员）
func (r *ListingRepo) MarkAdvertised(ctx context.Context, id, sellerEmail string) (int64, error) {
	q := r.db.WithContext(ctx).Model(&domain.Listing{}).Where("id = ?", id)
	if sellerEmail != "" {
		q = q.Where("seller_email = ?", sellerEmail)
	}
	res := q.Update("advertised", true)
	return res.RowsAffected, persistence("advertise listing", res.Error)
}

func (r *ListingRepo) MarkReported(ctx context.Context, id string) (int64, error) {
	return r.set(ctx, "report listing", id, "reported")
}

func (r *ListingRepo) MarkPaid(ctx context.Context, id string) (int64, error) {
	return r.set(ctx, "mark listing paid", id, "paid")
}

// set 条件更新，不存在的 id 是 no-op（RowsAffected=0），不 upsert
func (r *ListingRepo) set(ctx context.Context, op, id, column string) (int64, error) {
	res := r.db.WithContext(ctx).Model(&domain.Listing{}).
		Where("id = ?", id).
		Update(column, true)
	return res.RowsAffected, persistence(op, res.Error)
}

func (r *ListingRepo) Delete(ctx context.Context, id, sellerEmail string) (int64, error) {
	q := r.db.WithContext(ctx).Where("id = ?", id)
	if sellerEmail != "" {
		q = q.Where("seller_email = ?", sellerEmail)
	}
	res := q.Delete(&domain.Listing{})
	return res.RowsAffected, persistence("delete listing", res.Error)
}

func (r *ListingRepo) DeleteReported(ctx context.Context, id string) (int64, error) {
	res := r.db.WithContext(ctx).
		Where("id = ? AND reported = ?", id, true).
		Delete(&domain.Listing{})
	return res.RowsAffected, persistence("delete reported listing", res.Error)
}
