package sqlinline

const QSelectLiveTopupLots = `--sql 2d84fa09-6c11-4b3e-95d7-a0b38c62e174
select id, user_id, amount, used_count, purchased_at, expires_at
from topup_lots
where user_id = $1::uuid
  and expires_at > $2::timestamptz
order by purchased_at asc;
`

const QSelectTopupLots = `--sql 58c1e7b2-3a9f-4d06-8e42-f65d09a71c38
select id, user_id, amount, used_count, purchased_at, expires_at
from topup_lots
where user_id = $1::uuid
order by purchased_at asc;
`

const QInsertTopupLot = `--sql 91b6d4e8-07a2-45cf-b3d1-62e98f5a04c7
insert into topup_lots(id, user_id, amount, used_count, purchased_at, expires_at)
values ($1::uuid, $2::uuid, $3::int, 0, $4::timestamptz, $5::timestamptz);
`

const QAddTopupLotUsed = `--sql c7f093a4-5e68-4d21-ab9c-104d7e82f6b5
update topup_lots
set used_count = used_count + $2::int
where id = $1::uuid
  and used_count + $2::int <= amount;
`
