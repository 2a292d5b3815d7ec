package sqlinline

const QInsertPayment = `--sql 4e21b8d6-9fa3-4c75-8b09-d3f61a40e527
insert into payments(id, user_id, kind, units, price, created_at)
values ($1::uuid, $2::uuid, $3::text, $4::int, $5::numeric, $6::timestamptz);
`
