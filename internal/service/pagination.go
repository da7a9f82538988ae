package service

// Unbounded 作为页大小时表示从偏移量起返回全部剩余记录。
const Unbounded = -1

// Page 是从 1 开始编号的偏移分页参数。
type Page struct {
	Number int
	Size   int
}

// NewPage 校验页码与页大小；页码小于 1 视为非法输入而不是自动修正。
func NewPage(number, size int) (Page, error) {
	if number < 1 {
		return Page{}, ErrInvalidPage
	}
	if size <= 0 && size != Unbounded {
		return Page{}, ErrInvalidPageSize
	}
	return Page{Number: number, Size: size}, nil
}

func (p Page) Unbounded() bool { return p.Size == Unbounded }

// Offset 返回 (Number-1)*Size；不限页大小时第一页已包含全部记录，
// 后续页的偏移视为越界。
func (p Page) Offset() int {
	if p.Unbounded() {
		return 0
	}
	return (p.Number - 1) * p.Size
}

// Limit 直接交给 gorm，-1 表示不加 LIMIT。
func (p Page) Limit() int {
	if p.Unbounded() {
		return -1
	}
	return p.Size
}

// Beyond 报告该页是否一定落在数据之外，调用方可跳过查询。
func (p Page) Beyond() bool {
	return p.Unbounded() && p.Number > 1
}

// TotalPages 根据总数计算页数，没有记录时为 0。
func (p Page) TotalPages(total int64) int {
	if total <= 0 {
		return 0
	}
	if p.Unbounded() {
		return 1
	}
	size := int64(p.Size)
	return int((total + size - 1) / size)
}
